package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/limweiliang/stockroom/internal/service"
)

func (s *Server) handleListProducts(c *fiber.Ctx) error {
	p := service.ListProductsParams{
		SessionID: sessionID(c),
		Name:      c.Query("name"),
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		Page:      c.QueryInt("page", 1),
	}
	result := s.products.List(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleGetProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	result := s.products.Get(c.Context(), sessionID(c), id)
	return respond(c, result.Status, result)
}

func (s *Server) handleAddProduct(c *fiber.Ctx) error {
	var p service.AddProductParams
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c)
	}
	p.SessionID = sessionID(c)
	result := s.products.Add(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleSetProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	var p service.SetProductParams
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c)
	}
	p.SessionID = sessionID(c)
	p.ProductID = id
	result := s.products.Set(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleDeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	result := s.products.Delete(c.Context(), sessionID(c), id)
	return respond(c, result.Status, result)
}
