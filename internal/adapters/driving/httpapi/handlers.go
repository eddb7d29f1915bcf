package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
	"github.com/soubim/decisiond/internal/core/ports/driving"
)

type transcriptRequest struct {
	WebhookID       string   `json:"webhook_id"`
	ProjectID       string   `json:"project_id"`
	MeetingTitle    string   `json:"meeting_title"`
	MeetingDate     string   `json:"meeting_date"`
	MeetingType     string   `json:"meeting_type"`
	Transcript      string   `json:"transcript"`
	Participants    []string `json:"participants"`
	DurationMinutes int      `json:"duration_minutes"`
}

type uploadRequest struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	FileType  string `json:"file_type"`
	Content   string `json:"content"`
}

type receiveResponse struct {
	Status   string `json:"status"`
	SourceID string `json:"source_id"`
}

type decisionRequest struct {
	Status     string `json:"status"`
	ApprovedBy string `json:"approved_by"`
}

type batchDecisionRequest struct {
	SourceIDs  []string `json:"source_ids"`
	Status     string   `json:"status"`
	ApprovedBy string   `json:"approved_by"`
}

type sourceView struct {
	ID              string   `json:"id"`
	ProjectID       string   `json:"project_id"`
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	OccurredAt      string   `json:"occurred_at"`
	Status          string   `json:"status"`
	Summary         string   `json:"summary,omitempty"`
	ApprovedBy      string   `json:"approved_by,omitempty"`
	Participants    []string `json:"participants,omitempty"`
	MeetingType     string   `json:"meeting_type,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	EmailFrom       string   `json:"email_from,omitempty"`
	EmailThreadID   string   `json:"email_thread_id,omitempty"`
	FileURL         string   `json:"file_url,omitempty"`
	FileType        string   `json:"file_type,omitempty"`
	FileSize        int64    `json:"file_size,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

type listResponse struct {
	Sources []sourceView `json:"sources"`
	Total   int          `json:"total"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTranscriptWebhook(c echo.Context) error {
	var req transcriptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	payload := driving.TranscriptPayload{
		WebhookID:       req.WebhookID,
		ProjectID:       req.ProjectID,
		MeetingTitle:    req.MeetingTitle,
		MeetingType:     req.MeetingType,
		Transcript:      req.Transcript,
		Participants:    req.Participants,
		DurationMinutes: req.DurationMinutes,
	}
	if req.MeetingDate != "" {
		date, err := time.Parse(time.RFC3339, req.MeetingDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "meeting_date must be RFC 3339")
		}
		payload.MeetingDate = date
	}

	result, err := s.ingestion.ReceiveTranscript(c.Request().Context(), payload)
	if err != nil {
		return mapDomainError(err)
	}

	// A replayed webhook gets 200 with the existing source; a new one 202.
	code := http.StatusAccepted
	if result.Status == "duplicate" {
		code = http.StatusOK
	}
	return c.JSON(code, receiveResponse{Status: result.Status, SourceID: result.SourceID})
}

func (s *Server) handleUpload(c echo.Context) error {
	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.ingestion.UploadDocument(c.Request().Context(), driving.DocumentUpload{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		FileType:  req.FileType,
		Content:   req.Content,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusCreated, receiveResponse{Status: result.Status, SourceID: result.SourceID})
}

func (s *Server) handleDecision(c echo.Context) error {
	sourceID := c.Param("id")

	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	target, err := parseDecisionStatus(req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := s.ingestion.Approve(c.Request().Context(), sourceID, target, approverIdentity(c, req.ApprovedBy)); err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": string(target)})
}

func (s *Server) handleBatchDecision(c echo.Context) error {
	var req batchDecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.SourceIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "source_ids cannot be empty")
	}

	target, err := parseDecisionStatus(req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := s.ingestion.BatchApprove(c.Request().Context(), req.SourceIDs, target, approverIdentity(c, req.ApprovedBy))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, map[string]int{"updated": updated})
}

func (s *Server) handleList(c echo.Context) error {
	filter := driven.SourceFilter{
		ProjectID: c.QueryParam("project_id"),
		Type:      domain.SourceType(c.QueryParam("type")),
		Status:    domain.IngestionStatus(c.QueryParam("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status filter")
	}
	filter.Limit = intQueryParam(c, "limit", 0)
	filter.Offset = intQueryParam(c, "offset", 0)

	sources, total, err := s.ingestion.List(c.Request().Context(), filter)
	if err != nil {
		return mapDomainError(err)
	}

	views := make([]sourceView, 0, len(sources))
	for i := range sources {
		views = append(views, toSourceView(&sources[i]))
	}

	return c.JSON(http.StatusOK, listResponse{Sources: views, Total: total})
}

func (s *Server) handlePendingCount(c echo.Context) error {
	count, err := s.ingestion.PendingCount(c.Request().Context())
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"pending": count})
}

// approverIdentity prefers the request body, falling back to the
// X-Admin-Email header set by the fronting proxy.
func approverIdentity(c echo.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return c.Request().Header.Get("X-Admin-Email")
}

func parseDecisionStatus(raw string) (domain.IngestionStatus, error) {
	switch domain.IngestionStatus(raw) {
	case domain.StatusApproved:
		return domain.StatusApproved, nil
	case domain.StatusRejected:
		return domain.StatusRejected, nil
	default:
		return "", errors.New("status must be approved or rejected")
	}
}

func intQueryParam(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func toSourceView(src *domain.Source) sourceView {
	view := sourceView{
		ID:              src.ID,
		ProjectID:       src.ProjectID,
		Type:            string(src.Type),
		Title:           src.Title,
		OccurredAt:      src.OccurredAt.UTC().Format(time.RFC3339),
		Status:          string(src.Status),
		Summary:         src.Summary,
		ApprovedBy:      src.ApprovedBy,
		Participants:    src.Participants,
		MeetingType:     src.MeetingType,
		DurationMinutes: src.DurationMinutes,
		EmailFrom:       src.EmailFrom,
		EmailThreadID:   src.EmailThreadID,
		FileURL:         src.FileURL,
		FileType:        src.FileType,
		FileSize:        src.FileSize,
		CreatedAt:       src.CreatedAt.UTC().Format(time.RFC3339),
	}
	return view
}

func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
