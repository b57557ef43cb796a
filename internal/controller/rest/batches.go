package rest

import (
	"strconv"

	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// GET /api/student-batches/students[?batch_id=]
func (s *Server) listStudents(c *fiber.Ctx) error {
	var batchID *int64
	if raw := c.Query("batch_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperr.Validation("rest", "batch_id must be a number")
		}
		batchID = &id
	}

	students, err := s.records.ListStudents(c.UserContext(), batchID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Students fetched successfully", students)
}

// GET /api/student-batches/students/batch/:batch_id
func (s *Server) listStudentsByBatch(c *fiber.Ctx) error {
	batchID, err := parseID(c, "batch_id")
	if err != nil {
		return err
	}

	students, err := s.records.ListStudentsByBatch(c.UserContext(), batchID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Students fetched successfully", students)
}

// POST /api/student-batches/students/batch
func (s *Server) addStudent(c *fiber.Ctx) error {
	var req membershipRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	membership, err := s.records.AddStudentToBatch(c.UserContext(), req.StudentID, req.BatchID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "Student added to batch successfully", membership)
}

// DELETE /api/student-batches/students/batch
func (s *Server) removeStudent(c *fiber.Ctx) error {
	var req membershipRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	if err := s.records.RemoveStudentFromBatch(c.UserContext(), req.StudentID, req.BatchID); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Student removed from batch successfully", nil)
}

// PUT /api/student-batches/update
func (s *Server) transferStudent(c *fiber.Ctx) error {
	var req transferRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	membership, err := s.records.TransferStudent(c.UserContext(), req.StudentID, req.OldBatchID, req.NewBatchID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Student batch updated successfully", membership)
}

// GET /api/student-batches/students/search/:user_id
func (s *Server) searchStudent(c *fiber.Ctx) error {
	studentID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	found, err := s.records.SearchStudent(c.UserContext(), studentID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Student found", found)
}

// GET /api/student-batches/student-counts/:batch_id
func (s *Server) countByDate(c *fiber.Ctx) error {
	batchID, err := parseID(c, "batch_id")
	if err != nil {
		return err
	}

	counts, err := s.records.CountByDate(c.UserContext(), batchID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Student counts fetched successfully", counts)
}

// GET /api/student-batches/batches/count
func (s *Server) countByBatch(c *fiber.Ctx) error {
	counts, err := s.records.CountByBatch(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Batch counts fetched successfully", counts)
}

// GET /api/student-batches/batches/:batch_id/count
func (s *Server) countForBatch(c *fiber.Ctx) error {
	batchID, err := parseID(c, "batch_id")
	if err != nil {
		return err
	}

	count, err := s.records.CountForBatch(c.UserContext(), batchID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Batch count fetched successfully", fiber.Map{
		"batch_id":      batchID,
		"student_count": count,
	})
}
