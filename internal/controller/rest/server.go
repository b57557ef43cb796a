// Package rest HTTP API над RecordService
package rest

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/Freeeeeet/student_records/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	app      *fiber.App
	records  *service.RecordService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewServer(records *service.RecordService, logger *zap.Logger) *Server {
	s := &Server{
		records:  records,
		validate: validator.New(),
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "student-records",
		DisableStartupMessage: true,
		ErrorHandler:          writeError,
	})
	s.app.Use(s.requestID, s.accessLog)
	s.registerRoutes()

	return s
}

// App нужен тестам для app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", s.registerUser)
	users.Get("/user/:user_id", s.getUser)
	users.Put("/user/:user_id/status", s.setUserStatus)

	batches := api.Group("/student-batches")
	batches.Get("/students", s.listStudents)
	batches.Get("/students/batch/:batch_id", s.listStudentsByBatch)
	batches.Post("/students/batch", s.addStudent)
	batches.Delete("/students/batch", s.removeStudent)
	batches.Put("/update", s.transferStudent)
	batches.Get("/students/search/:user_id", s.searchStudent)
	batches.Get("/student-counts/:batch_id", s.countByDate)
	batches.Get("/batches/count", s.countByBatch)
	batches.Get("/batches/:batch_id/count", s.countForBatch)

	fees := api.Group("/fee-status")
	fees.Get("/", s.listFees)
	fees.Get("/summary", s.feeSummary)
	fees.Get("/upcoming-dues", s.upcomingDues)
	fees.Get("/:id", s.getFee)
	fees.Post("/", s.createFee)
	fees.Put("/:id", s.updateFee)
	fees.Delete("/:id", s.deleteFee)

	tests := api.Group("/student-test-records")
	tests.Post("/", s.recordScore)
	tests.Get("/", s.listScores)
	tests.Get("/test/:test_id", s.listScoresByTest)
	tests.Get("/user/:user_id", s.listScoresByStudent)
	tests.Put("/:record_id", s.updateScore)
	tests.Get("/rank/:test_id/:user_id", s.rank)
	tests.Get("/statistics/:test_id", s.statistics)
}

func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.Locals("request_id", id)
	c.Set(requestIDHeader, id)
	return c.Next()
}

// accessLog пишет ошибку в ответ сам, чтобы в лог попал итоговый статус
func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if werr := writeError(c, err); werr != nil {
			return werr
		}
		if status := c.Response().StatusCode(); status >= fiber.StatusInternalServerError {
			s.logger.Error("Request failed",
				zap.String("request_id", requestIDOf(c)),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("HTTP request",
		zap.String("request_id", requestIDOf(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)

	return nil
}

func requestIDOf(c *fiber.Ctx) string {
	id, _ := c.Locals("request_id").(string)
	return id
}

// parseID достаёт положительный числовой параметр пути
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("rest", "%s must be a positive number", name)
	}
	return id, nil
}

// bind разбирает тело запроса и проверяет теги validate
func (s *Server) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return ve
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}
