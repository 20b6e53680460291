// Package http exposes the service layer over HTTP/JSON. Handlers stay thin:
// decode the request, call the service, translate the result status to an
// HTTP code. All business rules live below this layer.
package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/limweiliang/stockroom/internal/service"
	"github.com/limweiliang/stockroom/internal/status"
)

// Server wires the service layer into a fiber application.
type Server struct {
	auth     service.Auth
	users    service.Users
	products service.Products
	stock    service.Stock
	sales    service.Sales
	log      *zap.Logger
}

// New constructs a Server.
func New(auth service.Auth, users service.Users, products service.Products, stock service.Stock, sales service.Sales, log *zap.Logger) *Server {
	return &Server{auth: auth, users: users, products: products, stock: stock, sales: sales, log: log}
}

// Router builds the fiber application with all routes registered.
func (s *Server) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "stockroom",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(s.requestLogger())

	api := app.Group("/api/v1")

	api.Post("/login", s.handleLogin)
	api.Post("/logout", s.handleLogout)
	api.Get("/me", s.handleCurrentUser)

	api.Get("/users", s.handleListUsers)
	api.Post("/users", s.handleAddUser)
	api.Get("/users/:id", s.handleGetUser)
	api.Put("/users/:id", s.handleSetUser)
	api.Delete("/users/:id", s.handleDeleteUser)

	api.Get("/products", s.handleListProducts)
	api.Post("/products", s.handleAddProduct)
	api.Get("/products/:id", s.handleGetProduct)
	api.Put("/products/:id", s.handleSetProduct)
	api.Delete("/products/:id", s.handleDeleteProduct)

	api.Get("/stock", s.handleListStock)
	api.Post("/stock", s.handleAddStock)
	api.Get("/stock/:sku", s.handleGetStock)
	api.Put("/stock/:sku", s.handleAdjustStock)
	api.Delete("/stock/:sku", s.handleDeleteStock)
	api.Get("/stock/:sku/trx", s.handleListStockTrx)

	api.Get("/sales", s.handleListSales)
	api.Post("/sales", s.handleAddSale)
	api.Delete("/sales/:id", s.handleDeleteSale)

	return app
}

// requestLogger logs one line per request.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		s.log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("code", c.Response().StatusCode()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return err
	}
}

// sessionID extracts the caller's session token from the Authorization
// header. An absent or malformed header yields the empty string, which the
// service layer rejects as an invalid session.
func sessionID(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return token
}

// httpStatus maps an operation status to an HTTP response code.
func httpStatus(st status.Status) int {
	switch st {
	case status.Success:
		return fiber.StatusOK
	case status.InvalidSession, status.InvalidCredential:
		return fiber.StatusUnauthorized
	case status.PermissionDenied:
		return fiber.StatusForbidden
	case status.NotFound:
		return fiber.StatusNotFound
	case status.Depended:
		return fiber.StatusConflict
	case status.ServerError:
		return fiber.StatusInternalServerError
	default:
		// Validation statuses (MISSING_*, INVALID_*, REPEATED_*).
		return fiber.StatusUnprocessableEntity
	}
}

// respond writes result as JSON with the HTTP code derived from st.
func respond(c *fiber.Ctx, st status.Status, result any) error {
	return c.Status(httpStatus(st)).JSON(result)
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
}
