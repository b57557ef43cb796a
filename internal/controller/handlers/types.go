package handlers

import (
	"github.com/Freeeeeet/student_records/internal/service"
	"go.uber.org/zap"
)

// Handlers команды бота для сотрудников
type Handlers struct {
	records *service.RecordService
	// Telegram ID, которым разрешены команды
	staff  map[int64]struct{}
	logger *zap.Logger
}

func NewHandlers(records *service.RecordService, staffIDs []int64, logger *zap.Logger) *Handlers {
	staff := make(map[int64]struct{}, len(staffIDs))
	for _, id := range staffIDs {
		staff[id] = struct{}{}
	}

	return &Handlers{
		records: records,
		staff:   staff,
		logger:  logger,
	}
}
