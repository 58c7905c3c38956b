package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/handler"
	appmw "github.com/Muhammedersln/EraslanMedya-sub001/internal/middleware"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/service"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	echo           *echo.Echo
	auth           *appmw.Authenticator
	gatherer       prometheus.Gatherer
	paymentHandler *handler.PaymentHandler
	orderHandler   *handler.OrderHandler
	cartHandler    *handler.CartHandler
	adminHandler   *handler.AdminHandler
}

func NewServer(
	orderService service.OrderService,
	cartService service.CartService,
	auth *appmw.Authenticator,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
	logLevel string,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(gommonLevel(logLevel))
	e.Validator = validation.New()
	e.HTTPErrorHandler = appmw.ErrorHandler(logger)
	e.IPExtractor = echo.ExtractIPFromXFFHeader()

	e.Use(middleware.RequestID())
	e.Use(appmw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		auth:           auth,
		gatherer:       gatherer,
		paymentHandler: handler.NewPaymentHandler(orderService, logger),
		orderHandler:   handler.NewOrderHandler(orderService),
		cartHandler:    handler.NewCartHandler(cartService),
		adminHandler:   handler.NewAdminHandler(orderService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.cartHandler.ListProducts)

	// -------- gateway callback (signed, no bearer token) --------
	api.POST("/payments/callback", s.paymentHandler.PaymentCallback)

	authed := api.Group("", s.auth.RequireAuth())
	authed.POST("/checkout", s.paymentHandler.Checkout)

	authed.GET("/orders", s.orderHandler.ListOrders)
	authed.GET("/orders/:id", s.orderHandler.GetOrder)
	authed.DELETE("/orders/:id", s.orderHandler.CancelOrder)

	authed.GET("/cart", s.cartHandler.GetCart)
	authed.POST("/cart", s.cartHandler.AddItem)
	authed.DELETE("/cart/:productID", s.cartHandler.RemoveItem)

	// -------- admin --------
	admin := authed.Group("/admin", appmw.RequireAdmin())
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.PATCH("/orders/:id", s.adminHandler.OverrideOrder)
	admin.DELETE("/orders/:id", s.adminHandler.DeleteOrder)
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func gommonLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
