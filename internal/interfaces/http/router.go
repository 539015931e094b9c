package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/auth"
	"github.com/jhoicas/Despensa-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC *usecase.CatalogUseCase
	StockUC   *usecase.StockUseCase
	ChatUC    *usecase.ChatUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Perfil del usuario autenticado
	protected.Get("/auth/me", authHandler.Me)

	// Catálogo de productos (protegido)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products := protected.Group("/products")
	products.Post("/", catalogHandler.AddProducts)
	products.Get("/", catalogHandler.ListProducts)

	// Stock por producto (protegido)
	stockHandler := NewStockHandler(deps.StockUC)
	products.Post("/:productId/stock", stockHandler.AddLot)
	products.Get("/:productId/stock", stockHandler.ListLots)
	products.Post("/:productId/stock/:lotId/consume", stockHandler.Consume)
	protected.Get("/stock", stockHandler.ListAllStock)

	// Chat con IA (protegido)
	chatHandler := NewChatHandler(deps.ChatUC)
	protected.Post("/chat/ai", chatHandler.Chat)
}
