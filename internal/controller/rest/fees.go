package rest

import "github.com/gofiber/fiber/v2"

// GET /api/fee-status
func (s *Server) listFees(c *fiber.Ctx) error {
	fees, err := s.records.ListFees(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Fee statuses fetched successfully", fees)
}

// GET /api/fee-status/summary
func (s *Server) feeSummary(c *fiber.Ctx) error {
	summary, err := s.records.FeeSummary(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Fee summary fetched successfully", summary)
}

// GET /api/fee-status/upcoming-dues
func (s *Server) upcomingDues(c *fiber.Ctx) error {
	dues, err := s.records.UpcomingDues(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Upcoming dues fetched successfully", dues)
}

// GET /api/fee-status/:id
func (s *Server) getFee(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	fee, err := s.records.GetFee(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Fee status fetched successfully", fee)
}

// POST /api/fee-status
func (s *Server) createFee(c *fiber.Ctx) error {
	var req createFeeRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	fee, err := req.toModel()
	if err != nil {
		return err
	}

	created, err := s.records.CreateFee(c.UserContext(), fee)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "Fee status created successfully", created)
}

// PUT /api/fee-status/:id
func (s *Server) updateFee(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req updateFeeRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	patch, err := req.toPatch()
	if err != nil {
		return err
	}

	updated, err := s.records.UpdateFee(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Fee status updated successfully", updated)
}

// DELETE /api/fee-status/:id
func (s *Server) deleteFee(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.records.DeleteFee(c.UserContext(), id); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Fee status deleted successfully", nil)
}
