package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
	"github.com/soubim/decisiond/internal/core/ports/driving"
)

// mockIngestion implements driving.IngestionService with canned results.
type mockIngestion struct {
	receiveResult *driving.ReceiveResult
	receiveErr    error
	lastPayload   driving.TranscriptPayload
	lastUpload    driving.DocumentUpload

	approveErr   error
	lastSourceID string
	lastTarget   domain.IngestionStatus
	lastApprover string
	batchUpdated int
	batchErr     error
	lastBatchIDs []string
	listSources  []domain.Source
	listTotal    int
	listErr      error
	lastFilter   driven.SourceFilter
	pendingCount int
	pendingErr   error
}

func (m *mockIngestion) ReceiveTranscript(_ context.Context, payload driving.TranscriptPayload) (*driving.ReceiveResult, error) {
	m.lastPayload = payload
	return m.receiveResult, m.receiveErr
}

func (m *mockIngestion) UploadDocument(_ context.Context, upload driving.DocumentUpload) (*driving.ReceiveResult, error) {
	m.lastUpload = upload
	return m.receiveResult, m.receiveErr
}

func (m *mockIngestion) Approve(_ context.Context, sourceID string, to domain.IngestionStatus, approvedBy string) error {
	m.lastSourceID = sourceID
	m.lastTarget = to
	m.lastApprover = approvedBy
	return m.approveErr
}

func (m *mockIngestion) BatchApprove(_ context.Context, sourceIDs []string, to domain.IngestionStatus, approvedBy string) (int, error) {
	m.lastBatchIDs = sourceIDs
	m.lastTarget = to
	return m.batchUpdated, m.batchErr
}

func (m *mockIngestion) List(_ context.Context, filter driven.SourceFilter) ([]domain.Source, int, error) {
	m.lastFilter = filter
	return m.listSources, m.listTotal, m.listErr
}

func (m *mockIngestion) PendingCount(_ context.Context) (int, error) {
	return m.pendingCount, m.pendingErr
}

func newTestServer(t *testing.T, ingestion *mockIngestion) *Server {
	t.Helper()
	srv, err := NewServer(ingestion, zap.NewNop(), nil)
	require.NoError(t, err)
	return srv
}

func doJSON(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(nil, zap.NewNop(), nil)
	assert.Error(t, err)

	_, err = NewServer(&mockIngestion{}, nil, nil)
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockIngestion{})

	rec := doJSON(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestTranscriptWebhook(t *testing.T) {
	ingestion := &mockIngestion{
		receiveResult: &driving.ReceiveResult{Status: "pending", SourceID: "src-1"},
	}
	srv := newTestServer(t, ingestion)

	rec := doJSON(srv, http.MethodPost, "/api/webhooks/transcript", `{
		"webhook_id": "wh-1",
		"project_id": "proj-1",
		"meeting_title": "Design Review",
		"meeting_date": "2025-03-03T10:00:00Z",
		"transcript": "transcript text",
		"participants": ["Jane", "Marco"],
		"duration_minutes": 45
	}`)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp receiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "src-1", resp.SourceID)

	assert.Equal(t, "wh-1", ingestion.lastPayload.WebhookID)
	assert.Equal(t, "Design Review", ingestion.lastPayload.MeetingTitle)
	assert.Equal(t, []string{"Jane", "Marco"}, ingestion.lastPayload.Participants)
	assert.Equal(t, 45, ingestion.lastPayload.DurationMinutes)
	assert.Equal(t, 2025, ingestion.lastPayload.MeetingDate.Year())
}

func TestTranscriptWebhookDuplicate(t *testing.T) {
	ingestion := &mockIngestion{
		receiveResult: &driving.ReceiveResult{Status: "duplicate", SourceID: "src-1"},
	}
	srv := newTestServer(t, ingestion)

	rec := doJSON(srv, http.MethodPost, "/api/webhooks/transcript",
		`{"webhook_id": "wh-1", "project_id": "proj-1", "transcript": "text"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate")
}

func TestTranscriptWebhookBadDate(t *testing.T) {
	srv := newTestServer(t, &mockIngestion{})

	rec := doJSON(srv, http.MethodPost, "/api/webhooks/transcript",
		`{"webhook_id": "wh-1", "project_id": "proj-1", "transcript": "t", "meeting_date": "yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscriptWebhookInvalidInput(t *testing.T) {
	ingestion := &mockIngestion{receiveErr: domain.ErrInvalidInput}
	srv := newTestServer(t, ingestion)

	rec := doJSON(srv, http.MethodPost, "/api/webhooks/transcript", `{"project_id": "proj-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadEndpoint(t *testing.T) {
	ingestion := &mockIngestion{
		receiveResult: &driving.ReceiveResult{Status: "pending", SourceID: "src-1"},
	}
	srv := newTestServer(t, ingestion)

	rec := doJSON(srv, http.MethodPost, "/api/ingestion/upload",
		`{"project_id": "proj-1", "title": "Notes", "file_type": "txt", "content": "body"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "proj-1", ingestion.lastUpload.ProjectID)
	assert.Equal(t, "txt", ingestion.lastUpload.FileType)
}

func TestDecisionEndpoint(t *testing.T) {
	ingestion := &mockIngestion{}
	srv := newTestServer(t, ingestion)

	rec := doJSON(srv, http.MethodPatch, "/api/ingestion/src-1",
		`{"status": "approved", "approved_by": "admin@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "src-1", ingestion.lastSourceID)
	assert.Equal(t, domain.StatusApproved, ingestion.lastTarget)
	assert.Equal(t, "admin@example.com", ingestion.lastApprover)
}

func TestDecisionEndpointHeaderIdentity(t *testing.T) {
	ingestion := &mockIngestion{}
	srv := newTestServer(t, ingestion)

	req := httptest.NewRequest(http.MethodPatch, "/api/ingestion/src-1",
		strings.NewReader(`{"status": "approved"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Email", "ops@example.com")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@example.com", ingestion.lastApprover)
}

func TestDecisionEndpointRejectsOtherStatuses(t *testing.T) {
	srv := newTestServer(t, &mockIngestion{})

	for _, status := range []string{"processed", "pending", "deleted", ""} {
		rec := doJSON(srv, http.MethodPatch, "/api/ingestion/src-1",
			`{"status": "`+status+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "status %q", status)
	}
}

func TestDecisionEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &mockIngestion{approveErr: tt.err})
			rec := doJSON(srv, http.MethodPatch, "/api/ingestion/src-1", `{"status": "approved"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestBatchDecisionEndpoint(t *testing.T) {
	ingestion := &mockIngestion{batchUpdated: 2}
	srv := newTestServer(t, ingestion)

	rec := doJSON(srv, http.MethodPost, "/api/ingestion/batch",
		`{"source_ids": ["src-1", "src-2", "src-3"], "status": "rejected"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updated":2`)
	assert.Equal(t, []string{"src-1", "src-2", "src-3"}, ingestion.lastBatchIDs)
	assert.Equal(t, domain.StatusRejected, ingestion.lastTarget)
}

func TestBatchDecisionEmptyIDs(t *testing.T) {
	srv := newTestServer(t, &mockIngestion{})

	rec := doJSON(srv, http.MethodPost, "/api/ingestion/batch",
		`{"source_ids": [], "status": "approved"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEndpoint(t *testing.T) {
	ingestion := &mockIngestion{
		listSources: []domain.Source{{
			ID:        "src-1",
			ProjectID: "proj-1",
			Type:      domain.SourceEmail,
			Title:     "RE: facade",
			Status:    domain.StatusPending,
		}},
		listTotal: 7,
	}
	srv := newTestServer(t, ingestion)

	rec := doJSON(srv, http.MethodGet, "/api/ingestion?status=pending&project_id=proj-1&limit=5&offset=10", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Total)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "src-1", resp.Sources[0].ID)

	assert.Equal(t, domain.StatusPending, ingestion.lastFilter.Status)
	assert.Equal(t, "proj-1", ingestion.lastFilter.ProjectID)
	assert.Equal(t, 5, ingestion.lastFilter.Limit)
	assert.Equal(t, 10, ingestion.lastFilter.Offset)
}

func TestListEndpointUnknownStatus(t *testing.T) {
	srv := newTestServer(t, &mockIngestion{})

	rec := doJSON(srv, http.MethodGet, "/api/ingestion?status=deleted", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPendingCountEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockIngestion{pendingCount: 4})

	rec := doJSON(srv, http.MethodGet, "/api/ingestion/count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending":4`)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockIngestion{})

	rec := doJSON(srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
