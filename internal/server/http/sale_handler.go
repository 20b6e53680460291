package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/limweiliang/stockroom/internal/service"
)

func (s *Server) handleListSales(c *fiber.Ctx) error {
	productID, _ := strconv.ParseInt(c.Query("productId", "0"), 10, 64)
	p := service.ListSalesParams{
		SessionID: sessionID(c),
		ProductID: productID,
		Category:  c.Query("category"),
		Page:      c.QueryInt("page", 1),
	}
	result := s.sales.List(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleAddSale(c *fiber.Ctx) error {
	var p service.AddSaleParams
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c)
	}
	p.SessionID = sessionID(c)
	result := s.sales.Add(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleDeleteSale(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	result := s.sales.Delete(c.Context(), sessionID(c), id)
	return respond(c, result.Status, result)
}
