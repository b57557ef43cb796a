package rest

import "github.com/gofiber/fiber/v2"

// POST /api/student-test-records
func (s *Server) recordScore(c *fiber.Ctx) error {
	var req recordScoreRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	rec, err := s.records.RecordScore(c.UserContext(), req.TestID, req.StudentID, *req.MarksObtained)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "Test record created successfully", rec)
}

// GET /api/student-test-records
func (s *Server) listScores(c *fiber.Ctx) error {
	records, err := s.records.ListScores(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Test records fetched successfully", records)
}

// GET /api/student-test-records/test/:test_id
func (s *Server) listScoresByTest(c *fiber.Ctx) error {
	testID, err := parseID(c, "test_id")
	if err != nil {
		return err
	}

	records, err := s.records.ListScoresByTest(c.UserContext(), testID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Test records fetched successfully", records)
}

// GET /api/student-test-records/user/:user_id
func (s *Server) listScoresByStudent(c *fiber.Ctx) error {
	studentID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	records, err := s.records.ListScoresByStudent(c.UserContext(), studentID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Test records fetched successfully", records)
}

// PUT /api/student-test-records/:record_id
func (s *Server) updateScore(c *fiber.Ctx) error {
	recordID, err := parseID(c, "record_id")
	if err != nil {
		return err
	}

	var req updateScoreRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	rec, err := s.records.UpdateScore(c.UserContext(), recordID, req.toPatch())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Test record updated successfully", rec)
}

// GET /api/student-test-records/rank/:test_id/:user_id
func (s *Server) rank(c *fiber.Ctx) error {
	testID, err := parseID(c, "test_id")
	if err != nil {
		return err
	}
	studentID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	rank, err := s.records.Rank(c.UserContext(), testID, studentID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Rank fetched successfully", rank)
}

// GET /api/student-test-records/statistics/:test_id
func (s *Server) statistics(c *fiber.Ctx) error {
	testID, err := parseID(c, "test_id")
	if err != nil {
		return err
	}

	stats, err := s.records.Statistics(c.UserContext(), testID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Test statistics fetched successfully", stats)
}
