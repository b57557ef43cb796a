package rest

import (
	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/gofiber/fiber/v2"
)

// POST /api/users/register
func (s *Server) registerUser(c *fiber.Ctx) error {
	var req registerUserRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	user, err := s.records.CreateUser(c.UserContext(), req.toModel())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "User registered successfully", user)
}

// GET /api/users/user/:user_id
func (s *Server) getUser(c *fiber.Ctx) error {
	id, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	user, err := s.records.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "User fetched successfully", user)
}

// PUT /api/users/user/:user_id/status
func (s *Server) setUserStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	var req userStatusRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	if err := s.records.SetUserStatus(c.UserContext(), id, model.UserStatus(req.Status)); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "User status updated successfully", nil)
}
