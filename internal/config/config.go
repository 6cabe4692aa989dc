package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// Port du serveur HTTP.
func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

// FrontendURL sert à construire les URLs de retour Stripe et le CORS.
func FrontendURL() string {
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		return url
	}
	return "http://localhost:5173"
}

func StripeSecretKey() string {
	return os.Getenv("STRIPE_SECRET_KEY")
}

func JWTSecret() string {
	return os.Getenv("JWT_SECRET")
}
