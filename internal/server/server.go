package server

import (
	"net/http"

	"craft-store/internal/handler"
	custommw "craft-store/internal/middleware"
	"craft-store/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo           *echo.Echo
	webhookHandler *handler.WebhookHandler
	authHandler    *handler.AuthHandler
	catalogHandler *handler.CatalogHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
}

func NewServer(
	logger *zap.SugaredLogger,
	authService service.AuthService,
	paymentService service.PaymentService,
	catalogService service.CatalogService,
	cartService service.CartService,
	orderService service.OrderService,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(custommw.ResolveSession(authService))
	e.Use(custommw.Guard())

	s := &Server{
		echo:           e,
		webhookHandler: handler.NewWebhookHandler(paymentService, logger),
		authHandler:    handler.NewAuthHandler(authService),
		catalogHandler: handler.NewCatalogHandler(catalogService),
		cartHandler:    handler.NewCartHandler(cartService),
		orderHandler:   handler.NewOrderHandler(orderService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	e := s.echo

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/unauthorized", func(c echo.Context) error {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "unauthorized"})
	})

	// -------- payment provider webhooks --------
	webhooks := e.Group("/api/webhooks")
	webhooks.POST("/paypal", s.webhookHandler.Paypal)
	webhooks.POST("/paystack", s.webhookHandler.Paystack)
	webhooks.POST("/yoco", s.webhookHandler.Yoco)

	// -------- auth --------
	e.POST("/sign-up", s.authHandler.SignUp)
	e.POST("/sign-in", s.authHandler.SignIn)
	e.POST("/sign-out", s.authHandler.SignOut)
	e.POST("/reset-password", s.authHandler.ResetPassword)

	// -------- public catalog --------
	e.GET("/products", s.catalogHandler.ListProducts)
	e.GET("/products/:slug", s.catalogHandler.GetProduct)
	e.GET("/crafters", s.catalogHandler.ListCrafters)
	e.GET("/crafters/:slug", s.catalogHandler.GetCrafter)

	// -------- account area (session required by the guard) --------
	e.GET("/user/cart", s.cartHandler.GetCart)
	e.POST("/user/cart/items", s.cartHandler.AddItem)
	e.DELETE("/user/cart/items/:productID", s.cartHandler.RemoveItem)
	e.POST("/checkout", s.orderHandler.Checkout)
	e.GET("/api/checkout/success", s.orderHandler.CaptureSuccess)
	e.GET("/order/:id", s.orderHandler.GetOrder)
	e.GET("/user/orders", s.orderHandler.ListOwnOrders)

	// -------- admin back-office (role admin by the guard) --------
	admin := e.Group("/admin")
	admin.GET("/orders", s.orderHandler.ListAllOrders)
	admin.PUT("/orders/:id/deliver", s.orderHandler.MarkDelivered)
	admin.POST("/products", s.catalogHandler.CreateProduct)
	admin.PUT("/products/:id", s.catalogHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.catalogHandler.DeleteProduct)
	admin.POST("/crafters", s.catalogHandler.CreateCrafter)

	// -------- crafter storefront (role craft by the guard) --------
	crafter := e.Group("/crafter")
	crafter.GET("/products", s.catalogHandler.ListOwnProducts)
	crafter.POST("/products", s.catalogHandler.CreateOwnProduct)
	crafter.PUT("/products/:id", s.catalogHandler.UpdateOwnProduct)
	crafter.DELETE("/products/:id", s.catalogHandler.DeleteOwnProduct)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
