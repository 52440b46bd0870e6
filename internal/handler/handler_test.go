package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/domain"
	"staffdesk/internal/domain/models"
	agentmodels "staffdesk/internal/domain/models/agent"
	"staffdesk/internal/domain/services"
	"staffdesk/internal/httputil"
)

type fakeEmployeeService struct {
	employees  map[int64]models.Employee
	lastUpdate *services.UpdateEmployeeRequest
	err        error
}

func newFakeEmployeeService() *fakeEmployeeService {
	return &fakeEmployeeService{employees: map[int64]models.Employee{
		1: {ID: 1, Name: "Ada", Position: "Engineer", Salary: 100},
	}}
}

func (f *fakeEmployeeService) CreateEmployee(ctx context.Context, req *services.CreateEmployeeRequest) (*models.Employee, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	e := models.Employee{ID: int64(len(f.employees) + 1), Name: req.Name, Position: req.Position, Salary: req.Salary}
	f.employees[e.ID] = e
	return &e, nil
}

func (f *fakeEmployeeService) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.employees[id]
	if !ok {
		return nil, &domain.NotFoundError{ResourceType: "employee", ResourceID: fmt.Sprint(id)}
	}
	return &e, nil
}

func (f *fakeEmployeeService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var out []models.Employee
	for _, e := range f.employees {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeService) UpdateEmployee(ctx context.Context, id int64, req *services.UpdateEmployeeRequest) (*models.Employee, error) {
	f.lastUpdate = req
	e, err := f.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Salary != nil {
		e.Salary = *req.Salary
	}
	return e, nil
}

func (f *fakeEmployeeService) DeleteEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	e, err := f.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(f.employees, id)
	return e, nil
}

type fakeAgentService struct {
	chats    []*services.ChatRequest
	events   []*services.RecordEventRequest
	resets   []string
	history  []agentmodels.Turn
	chatErr  error
	chatResp *services.ChatResult
}

func (f *fakeAgentService) Broadcast(event agentmodels.Event) {}

func (f *fakeAgentService) Chat(ctx context.Context, req *services.ChatRequest) (*services.ChatResult, error) {
	f.chats = append(f.chats, req)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return f.chatResp, nil
}

func (f *fakeAgentService) RecordEvent(ctx context.Context, req *services.RecordEventRequest) error {
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description: cannot be blank", domain.ErrValidation)
	}
	f.events = append(f.events, req)
	return nil
}

func (f *fakeAgentService) ResetMemory(ctx context.Context, sessionID string) error {
	f.resets = append(f.resets, sessionID)
	return nil
}

func (f *fakeAgentService) History(ctx context.Context, sessionID string) ([]agentmodels.Turn, error) {
	return f.history, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestEmployeeHandler_Create(t *testing.T) {
	h := NewEmployeeHandler(newFakeEmployeeService(), discardLogger())

	rec := httptest.NewRecorder()
	h.CreateEmployee(rec, newRequest(http.MethodPost, "/api/employees", `{"name":"Grace","position":"Admiral","salary":200}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Employee](t, rec)
	assert.Equal(t, "Grace", created.Name)
	assert.Equal(t, int64(2), created.ID)

	rec = httptest.NewRecorder()
	h.CreateEmployee(rec, newRequest(http.MethodPost, "/api/employees", `{"name":""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateEmployee(rec, newRequest(http.MethodPost, "/api/employees", `{"name":"x","age":3}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployeeHandler_CreateBodyTooLarge(t *testing.T) {
	h := NewEmployeeHandler(newFakeEmployeeService(), discardLogger())
	big := `{"name":"` + strings.Repeat("a", httputil.MaxRequestBodySize) + `"}`

	rec := httptest.NewRecorder()
	h.CreateEmployee(rec, newRequest(http.MethodPost, "/api/employees", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestEmployeeHandler_Get(t *testing.T) {
	h := NewEmployeeHandler(newFakeEmployeeService(), discardLogger())

	tests := []struct {
		id   string
		want int
	}{
		{"1", http.StatusOK},
		{"42", http.StatusNotFound},
		{"abc", http.StatusBadRequest},
		{"0", http.StatusBadRequest},
		{"", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run("id="+tt.id, func(t *testing.T) {
			req := newRequest(http.MethodGet, "/api/employees/x", "")
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()
			h.GetEmployee(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestEmployeeHandler_Update(t *testing.T) {
	svc := newFakeEmployeeService()
	h := NewEmployeeHandler(svc, discardLogger())

	req := newRequest(http.MethodPatch, "/api/employees/1", `{"salary":150}`)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.UpdateEmployee(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 150.0, decode[models.Employee](t, rec).Salary)
	require.NotNil(t, svc.lastUpdate)
	assert.Nil(t, svc.lastUpdate.Name)
	assert.Nil(t, svc.lastUpdate.Position)

	req = newRequest(http.MethodPatch, "/api/employees/1", `{"name":null}`)
	req.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	h.UpdateEmployee(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name cannot be null")
}

func TestEmployeeHandler_Delete(t *testing.T) {
	svc := newFakeEmployeeService()
	h := NewEmployeeHandler(svc, discardLogger())

	req := newRequest(http.MethodDelete, "/api/employees/1", "")
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.DeleteEmployee(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada", decode[models.Employee](t, rec).Name)
	assert.Empty(t, svc.employees)

	rec = httptest.NewRecorder()
	h.DeleteEmployee(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAgentHandler_Chat(t *testing.T) {
	svc := &fakeAgentService{chatResp: &services.ChatResult{Success: true, Reply: "Done.", Mutated: true, State: "answered", Rounds: 2}}
	h := NewAgentHandler(svc, discardLogger())

	req := httputil.WithSessionID(newRequest(http.MethodPost, "/api/chat", `{"message":"hire Bob"}`), "s1")
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[services.ChatResult](t, rec)
	assert.True(t, got.Success)
	assert.True(t, got.Mutated)
	assert.Equal(t, "Done.", got.Reply)
	require.Len(t, svc.chats, 1)
	assert.Equal(t, "s1", svc.chats[0].SessionID)
	assert.Equal(t, "hire Bob", svc.chats[0].Message)
}

func TestAgentHandler_ChatErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed", `{"message":`, nil, http.StatusBadRequest},
		{"session id in body", `{"message":"hi","session_id":"x"}`, nil, http.StatusBadRequest},
		{"validation", `{"message":""}`, fmt.Errorf("%w: message: nothing was said", domain.ErrValidation), http.StatusBadRequest},
		{"cancelled", `{"message":"hi"}`, context.Canceled, http.StatusServiceUnavailable},
		{"internal", `{"message":"hi"}`, fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAgentHandler(&fakeAgentService{chatErr: tt.err}, discardLogger())
			rec := httptest.NewRecorder()
			h.Chat(rec, newRequest(http.MethodPost, "/api/chat", tt.body))
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestAgentHandler_InternalErrorCarriesRequestID(t *testing.T) {
	h := NewAgentHandler(&fakeAgentService{chatErr: errors.New("boom")}, discardLogger())

	req := httputil.WithRequestID(newRequest(http.MethodPost, "/api/chat", `{"message":"hi"}`), "req-42")
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "req-42", body["request_id"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestAgentHandler_RecordEvent(t *testing.T) {
	svc := &fakeAgentService{}
	h := NewAgentHandler(svc, discardLogger())

	req := httputil.WithSessionID(newRequest(http.MethodPost, "/api/chat/events", `{"description":"imported payroll","source":"batch"}`), "s1")
	rec := httptest.NewRecorder()
	h.RecordEvent(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, svc.events, 1)
	assert.Equal(t, "s1", svc.events[0].SessionID)
	assert.Equal(t, "batch", svc.events[0].Source)

	rec = httptest.NewRecorder()
	h.RecordEvent(rec, newRequest(http.MethodPost, "/api/chat/events", `{"description":"  "}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAgentHandler_HistoryAndReset(t *testing.T) {
	svc := &fakeAgentService{history: []agentmodels.Turn{agentmodels.NewUserTurn("hello")}}
	h := NewAgentHandler(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.GetHistory(rec, httputil.WithSessionID(newRequest(http.MethodGet, "/api/chat/history", ""), "s1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello")

	rec = httptest.NewRecorder()
	h.ResetMemory(rec, httputil.WithSessionID(newRequest(http.MethodDelete, "/api/chat/memory", ""), "s1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"s1"}, svc.resets)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, newRequest(http.MethodGet, "/health", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
