package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limweiliang/stockroom/internal/service"
)

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var p service.LoginParams
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c)
	}
	result := s.auth.Login(c.Context(), p)
	return respond(c, result.Status, result)
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	result := s.auth.Logout(c.Context(), sessionID(c))
	return respond(c, result.Status, result)
}

func (s *Server) handleCurrentUser(c *fiber.Ctx) error {
	result := s.auth.CurrentUser(c.Context(), sessionID(c))
	return respond(c, result.Status, result)
}
