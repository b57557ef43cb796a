package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/student_records/internal/controller/rest"
	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/Freeeeeet/student_records/internal/repository/memory"
	"github.com/Freeeeeet/student_records/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Code    int               `json:"code"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newTestServer(t *testing.T) (*rest.Server, *memory.Store) {
	t.Helper()

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

	return rest.NewServer(records, logger), store
}

func do(t *testing.T, srv *rest.Server, method, path, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func seedUser(t *testing.T, store *memory.Store, email string, status model.UserStatus) int64 {
	t.Helper()

	u := &model.User{Name: email, Email: email, RoleID: 3, Status: status}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u.ID
}

func TestBatchRoutes(t *testing.T) {
	srv, store := newTestServer(t)
	a := seedUser(t, store, "a@school.test", model.UserStatusActive)
	b := seedUser(t, store, "b@school.test", model.UserStatusInactive)

	status, _ := do(t, srv, http.MethodPost, "/api/student-batches/students/batch", `{"user_id":`+itoa(a)+`,"batch_id":5}`)
	assert.Equal(t, http.StatusCreated, status)

	status, env := do(t, srv, http.MethodPost, "/api/student-batches/students/batch", `{"user_id":`+itoa(b)+`,"batch_id":5}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "error", env.Status)

	status, env = do(t, srv, http.MethodGet, "/api/student-batches/students/batch/5", "")
	require.Equal(t, http.StatusOK, status)
	var details []model.MembershipDetail
	require.NoError(t, json.Unmarshal(env.Data, &details))
	require.Len(t, details, 1)
	assert.Equal(t, "a@school.test", details[0].Email)

	status, _ = do(t, srv, http.MethodPut, "/api/student-batches/update", `{"user_id":`+itoa(a)+`,"old_batch_id":5,"new_batch_id":7}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, srv, http.MethodGet, "/api/student-batches/students?batch_id=5", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, env = do(t, srv, http.MethodGet, "/api/student-batches/batches/count", "")
	require.Equal(t, http.StatusOK, status)
	var counts model.BatchCounts
	require.NoError(t, json.Unmarshal(env.Data, &counts))
	assert.Equal(t, 1, counts.BatchCount)

	status, _ = do(t, srv, http.MethodDelete, "/api/student-batches/students/batch", `{"user_id":`+itoa(a)+`,"batch_id":7}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, srv, http.MethodGet, "/api/student-batches/students/search/"+itoa(a), "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := do(t, srv, http.MethodPut, "/api/student-batches/update", `{"user_id":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "OldBatchID")

	status, _ = do(t, srv, http.MethodGet, "/api/fee-status/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, srv, http.MethodPost, "/api/fee-status", `{"user_id":1,"admission_date":"15/01/2024","total_fees":10}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, srv, http.MethodPost, "/api/student-test-records", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFeeRoutes(t *testing.T) {
	srv, store := newTestServer(t)
	a := seedUser(t, store, "a@school.test", model.UserStatusActive)

	status, env := do(t, srv, http.MethodPost, "/api/fee-status",
		`{"user_id":`+itoa(a)+`,"admission_date":"2024-01-15","total_fees":"1000","fees_submitted":400}`)
	require.Equal(t, http.StatusCreated, status)
	var fee model.FeeStatus
	require.NoError(t, json.Unmarshal(env.Data, &fee))
	assert.Equal(t, "600", fee.RemainingFees.String())

	status, env = do(t, srv, http.MethodPut, "/api/fee-status/"+itoa(fee.ID), `{"fees_submitted":1000}`)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &fee))
	assert.True(t, fee.RemainingFees.IsZero())

	status, _ = do(t, srv, http.MethodPut, "/api/fee-status/"+itoa(fee.ID), `{"fees_submitted":5000}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, srv, http.MethodGet, "/api/fee-status/summary", "")
	require.Equal(t, http.StatusOK, status)
	var summary model.FeeSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, int64(1), summary.TotalStudents)

	status, _ = do(t, srv, http.MethodGet, "/api/fee-status/upcoming-dues", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, srv, http.MethodDelete, "/api/fee-status/"+itoa(fee.ID), "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, srv, http.MethodGet, "/api/fee-status/"+itoa(fee.ID), "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestScoreRoutes(t *testing.T) {
	srv, store := newTestServer(t)
	a := seedUser(t, store, "a@school.test", model.UserStatusActive)
	b := seedUser(t, store, "b@school.test", model.UserStatusActive)

	for _, body := range []string{
		`{"test_id":1,"user_id":` + itoa(a) + `,"marks_obtained":90}`,
		`{"test_id":1,"user_id":` + itoa(b) + `,"marks_obtained":"95.5"}`,
	} {
		status, _ := do(t, srv, http.MethodPost, "/api/student-test-records", body)
		require.Equal(t, http.StatusCreated, status)
	}

	status, env := do(t, srv, http.MethodGet, "/api/student-test-records/rank/1/"+itoa(a), "")
	require.Equal(t, http.StatusOK, status)
	var rank model.StudentRank
	require.NoError(t, json.Unmarshal(env.Data, &rank))
	assert.Equal(t, 2, rank.Rank)

	status, env = do(t, srv, http.MethodGet, "/api/student-test-records/statistics/1", "")
	require.Equal(t, http.StatusOK, status)
	var stats model.TestStatistics
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, "95.5", stats.HighestMarks.String())
	assert.Equal(t, "92.75", stats.AverageMarks.String())

	status, _ = do(t, srv, http.MethodGet, "/api/student-test-records/statistics/2", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, srv, http.MethodPut, "/api/student-test-records/1000", `{"marks_obtained":1}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUserRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"name":"Alice","email":"alice@school.test","role_id":3}`
	status, env := do(t, srv, http.MethodPost, "/api/users/register", body)
	require.Equal(t, http.StatusCreated, status)
	var user model.User
	require.NoError(t, json.Unmarshal(env.Data, &user))

	status, _ = do(t, srv, http.MethodPost, "/api/users/register", body)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = do(t, srv, http.MethodPut, "/api/users/user/"+itoa(user.ID)+"/status", `{"status":"inactive"}`)
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, srv, http.MethodGet, "/api/users/user/"+itoa(user.ID), "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, model.UserStatusInactive, user.Status)
}

func TestTimeoutMapsTo504(t *testing.T) {
	srv, store := newTestServer(t)
	store.Before = func(ctx context.Context, op string) error {
		<-ctx.Done()
		return ctx.Err()
	}

	status, env := do(t, srv, http.MethodGet, "/api/fee-status", "")
	assert.Equal(t, http.StatusGatewayTimeout, status)
	assert.Equal(t, "operation timed out", env.Message)
}

func TestRequestID(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/fee-status", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)
}
