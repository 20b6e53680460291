package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/limweiliang/stockroom/internal/service"
)

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	p := service.ListUsersParams{
		SessionID: sessionID(c),
		Name:      c.Query("name"),
		Email:     c.Query("email"),
		IDNumber:  c.Query("idNumber"),
		Role:      c.Query("role"),
		Page:      c.QueryInt("page", 1),
	}
	result := s.users.List(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleGetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	result := s.users.Get(c.Context(), sessionID(c), id)
	return respond(c, result.Status, result)
}

func (s *Server) handleAddUser(c *fiber.Ctx) error {
	var p service.AddUserParams
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c)
	}
	p.SessionID = sessionID(c)
	result := s.users.Add(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleSetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	var p service.SetUserParams
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c)
	}
	p.SessionID = sessionID(c)
	p.UserID = id
	result := s.users.Set(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleDeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	result := s.users.Delete(c.Context(), sessionID(c), id)
	return respond(c, result.Status, result)
}
