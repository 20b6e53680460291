package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/limweiliang/stockroom/internal/service"
)

// queryDate parses an optional yyyy-mm-dd query parameter. Malformed values
// are treated as absent.
func queryDate(c *fiber.Ctx, key string) time.Time {
	t, err := time.Parse("2006-01-02", c.Query(key))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *Server) handleListStock(c *fiber.Ctx) error {
	productID, _ := strconv.ParseInt(c.Query("productId", "0"), 10, 64)
	p := service.ListStockParams{
		SessionID:  sessionID(c),
		SKU:        c.Query("sku"),
		Name:       c.Query("name"),
		Category:   c.Query("category"),
		ProductID:  productID,
		ExpiryFrom: queryDate(c, "expiryFrom"),
		ExpiryTo:   queryDate(c, "expiryTo"),
		Page:       c.QueryInt("page", 1),
	}
	result := s.stock.List(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleGetStock(c *fiber.Ctx) error {
	result := s.stock.Get(c.Context(), sessionID(c), c.Params("sku"))
	return respond(c, result.Status, result)
}

func (s *Server) handleAddStock(c *fiber.Ctx) error {
	var p service.AddStockParams
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c)
	}
	p.SessionID = sessionID(c)
	result := s.stock.Add(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleAdjustStock(c *fiber.Ctx) error {
	var p service.AdjustStockParams
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c)
	}
	p.SessionID = sessionID(c)
	p.SKU = c.Params("sku")
	result := s.stock.Adjust(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleDeleteStock(c *fiber.Ctx) error {
	result := s.stock.Delete(c.Context(), sessionID(c), c.Params("sku"))
	return respond(c, result.Status, result)
}

func (s *Server) handleListStockTrx(c *fiber.Ctx) error {
	p := service.ListStockTrxParams{
		SessionID: sessionID(c),
		SKU:       c.Params("sku"),
		Page:      c.QueryInt("page", 1),
	}
	result := s.stock.ListTrx(c.Context(), p)
	return respond(c, result.Status, result)
}
