package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/Freeeeeet/student_records/internal/repository/memory"
	"github.com/Freeeeeet/student_records/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const staffID = 42

// telegramStub запоминает тексты sendMessage
type telegramStub struct {
	mu    sync.Mutex
	texts []string
}

func (s *telegramStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/sendMessage") {
		_ = r.ParseMultipartForm(1 << 20)
		s.mu.Lock()
		s.texts = append(s.texts, r.FormValue("text"))
		s.mu.Unlock()
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
}

func (s *telegramStub) last(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.texts)
	return s.texts[len(s.texts)-1]
}

func setup(t *testing.T) (*Handlers, *bot.Bot, *telegramStub, *memory.Store) {
	t.Helper()

	stub := &telegramStub{}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	require.NoError(t, err)

	store := memory.NewStore()
	logger := zap.NewNop()
	users := store.Users()
	records := service.NewRecordService(
		service.NewUserService(users, logger),
		service.NewBatchService(store, store.Memberships(), users, false, logger),
		service.NewFeeService(store, store.Fees(), users, logger),
		service.NewTestService(store, store.Records(), users, false, logger),
		time.Second,
	)

	return NewHandlers(records, []int64{staffID}, logger), b, stub, store
}

func message(from int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Text: text,
		From: &models.User{ID: from, FirstName: "Staff"},
		Chat: models.Chat{ID: from},
	}}
}

func TestParseArgs(t *testing.T) {
	args, err := parseArgs("/rank 3 17", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 17}, args)

	_, err = parseArgs("/rank 3", 2)
	assert.Error(t, err)

	_, err = parseArgs("/batch x", 1)
	assert.Error(t, err)
}

func TestHandlers_RejectNonStaff(t *testing.T) {
	h, b, stub, _ := setup(t)

	h.HandleSummary(context.Background(), b, message(7, "/summary"))
	assert.Contains(t, stub.last(t), "staff only")
}

func TestHandlers_Rank(t *testing.T) {
	h, b, stub, store := setup(t)
	ctx := context.Background()

	u := &model.User{Name: "Alice", Email: "a@school.test", RoleID: 3, Status: model.UserStatusActive}
	require.NoError(t, store.Users().Create(ctx, u))
	require.NoError(t, store.Records().Create(ctx, &model.TestRecord{TestID: 1, StudentID: u.ID, MarksObtained: decimal.NewFromInt(80)}))

	h.HandleRank(ctx, b, message(staffID, "/rank 1 "+strconv.FormatInt(u.ID, 10)))
	assert.Contains(t, stub.last(t), "ranked 1 of 1")

	h.HandleRank(ctx, b, message(staffID, "/rank 1"))
	assert.Contains(t, stub.last(t), "Usage")

	h.HandleStats(ctx, b, message(staffID, "/stats 9"))
	assert.Contains(t, stub.last(t), "no records found")
}

func TestHandlers_Summary(t *testing.T) {
	h, b, stub, _ := setup(t)

	h.HandleSummary(context.Background(), b, message(staffID, "/summary"))
	assert.Contains(t, stub.last(t), "Total due: 0.00")

	h.HandleDues(context.Background(), b, message(staffID, "/dues"))
	assert.Contains(t, stub.last(t), "No upcoming dues")
}
