// Package handlers expose le cœur métier en HTTP : liaison des requêtes,
// extraction de l'identité depuis le contexte Gin et enveloppe de réponse
// uniforme. Aucune règle métier ici.
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"fornello_back_end/internal/apperrors"
)

// respondData renvoie l'enveloppe de succès avec une charge utile.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success":    true,
		"statusCode": status,
		"data":       data,
	})
}

// respondMessage renvoie l'enveloppe de succès sans charge utile.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success":    true,
		"statusCode": status,
		"message":    message,
	})
}

// respondErr traduit une erreur métier en réponse HTTP. Les erreurs non
// typées sont traitées en 500 avec un message générique, le détail part
// dans les logs, jamais au client.
func respondErr(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		log.Printf("❌ Erreur inattendue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":    false,
			"statusCode": http.StatusInternalServerError,
			"message":    "Internal server error",
		})
		return
	}

	status := appErr.StatusCode()
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s: %v", appErr.Message, appErr.Err)
	}
	c.JSON(status, gin.H{
		"success":    false,
		"statusCode": status,
		"message":    appErr.Message,
	})
}

// respondBadRequest couvre les erreurs de liaison JSON.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success":    false,
		"statusCode": http.StatusBadRequest,
		"message":    message,
	})
}
