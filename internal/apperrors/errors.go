// Package apperrors porte la taxonomie d'erreurs métier du service.
// Chaque opération du cœur traduit ses échecs attendus dans cette taxonomie ;
// seul un incident vraiment inattendu remonte comme erreur brute.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInvalidInput Kind = iota // requête malformée ou champ manquant
	KindInvalidState             // requête valide mais précondition métier non remplie
	KindNotFound                 // entité référencée absente
	KindForbidden                // authentifié mais non autorisé sur la ressource
	KindServiceFailure           // panne passerelle externe ou stockage
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode renvoie le code HTTP associé au genre d'erreur.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindServiceFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func ServiceFailure(message string, err error) *Error {
	return &Error{Kind: KindServiceFailure, Message: message, Err: err}
}

// As extrait une *Error de n'importe quelle chaîne d'erreurs.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind teste le genre d'une erreur de la taxonomie.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
