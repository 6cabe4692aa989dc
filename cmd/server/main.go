package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fornello_back_end/internal/config"
	"fornello_back_end/internal/database"
	"fornello_back_end/internal/gateway"
	"fornello_back_end/internal/handlers"
	"fornello_back_end/internal/notify"
	"fornello_back_end/internal/routes"
	"fornello_back_end/internal/services"
	"fornello_back_end/internal/store"
)

func main() {
	config.Load()

	stripeKey := config.StripeSecretKey()
	if stripeKey == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	stripeGateway := gateway.NewStripeGateway(stripeKey)
	log.Println("✅ Stripe initialisé")

	database.ConnectDatabases()
	defer database.CloseScylla()

	productsSession, err := database.GetProductsSession()
	if err != nil {
		log.Fatalf("❌ Session ScyllaDB produits indisponible: %v", err)
	}
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		log.Fatalf("❌ Session ScyllaDB commandes indisponible: %v", err)
	}

	productStore := store.NewProductStore(productsSession)
	promoStore := store.NewPromoStore(ordersSession)
	orderStore := store.NewOrderStore(ordersSession)
	cartStore := store.NewCartStore(database.Redis)

	notifier := notify.NewRedisNotifier(database.Redis, notify.NewMailerFromEnv())

	cartService := services.NewCartService(productStore, cartStore)
	promoService := services.NewPromoService(promoStore)
	orderService := services.NewOrderService(cartStore, orderStore, promoService, notifier)
	paymentService := services.NewPaymentService(orderStore, stripeGateway, notifier, config.FrontendURL())

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.FrontendURL()},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Cart:    handlers.NewCartHandler(cartService),
		Orders:  handlers.NewOrderHandler(orderService),
		Promos:  handlers.NewPromoHandler(promoService),
		Payment: handlers.NewPaymentHandler(paymentService),
		OrderWS: handlers.NewOrderWebSocketHandler(orderService, database.Redis),
	}, config.JWTSecret())

	port := config.Port()
	log.Println("🚀 Serveur Fornello lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Serveur arrêté: %v", err)
	}
}
