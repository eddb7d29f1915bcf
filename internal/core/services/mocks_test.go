package services

import (
	"context"
	"sync"
	"time"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// --- Shared mock implementations for service testing ---

// mockSourceStore implements driven.SourceStore in memory.
type mockSourceStore struct {
	mu        sync.Mutex
	sources   map[string]*domain.Source
	saveErr   error
	updateErr error
}

func newMockSourceStore() *mockSourceStore {
	return &mockSourceStore{sources: make(map[string]*domain.Source)}
}

func (m *mockSourceStore) Save(_ context.Context, src *domain.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *src
	m.sources[src.ID] = &cp
	return nil
}

func (m *mockSourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *src
	return &cp, nil
}

func (m *mockSourceStore) List(_ context.Context, filter driven.SourceFilter) ([]domain.Source, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Source
	for _, src := range m.sources {
		if filter.Status != "" && src.Status != filter.Status {
			continue
		}
		out = append(out, *src)
	}
	return out, len(out), nil
}

func (m *mockSourceStore) CountByStatus(_ context.Context, status domain.IngestionStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, src := range m.sources {
		if src.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockSourceStore) UpdateStatus(_ context.Context, id string, to domain.IngestionStatus, approvedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	src, ok := m.sources[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !domain.CanTransition(src.Status, to) {
		return domain.ErrInvalidTransition
	}
	src.Status = to
	if to == domain.StatusApproved {
		src.ApprovedBy = approvedBy
		src.ApprovedAt = time.Now().UTC()
	}
	return nil
}

func (m *mockSourceStore) UpdateSummary(_ context.Context, id, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.sources[id]
	if !ok {
		return domain.ErrNotFound
	}
	src.Summary = summary
	return nil
}

func (m *mockSourceStore) FindByWebhookID(_ context.Context, webhookID string) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, src := range m.sources {
		if src.Type == domain.SourceMeeting && src.WebhookID == webhookID {
			cp := *src
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSourceStore) FindByEmailMessage(_ context.Context, threadID, messageID string) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, src := range m.sources {
		if src.EmailThreadID == threadID && src.WebhookID == messageID {
			cp := *src
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSourceStore) FindByDriveFileID(_ context.Context, fileID string) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, src := range m.sources {
		if src.DriveFileID == fileID {
			cp := *src
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSourceStore) CountProcessedInThread(_ context.Context, threadID, excludeSourceID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, src := range m.sources {
		if src.EmailThreadID == threadID && src.ID != excludeSourceID && src.Status == domain.StatusProcessed {
			count++
		}
	}
	return count, nil
}

func (m *mockSourceStore) byStatus(status domain.IngestionStatus) []domain.Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Source
	for _, src := range m.sources {
		if src.Status == status {
			out = append(out, *src)
		}
	}
	return out
}

// mockProjectStore implements driven.ProjectStore in memory.
type mockProjectStore struct {
	mu         sync.Mutex
	projects   map[string]*domain.Project
	listErr    error
	watermarks map[string]time.Time
}

func newMockProjectStore(projects ...domain.Project) *mockProjectStore {
	m := &mockProjectStore{
		projects:   make(map[string]*domain.Project),
		watermarks: make(map[string]time.Time),
	}
	for i := range projects {
		cp := projects[i]
		m.projects[cp.ID] = &cp
	}
	return m
}

func (m *mockProjectStore) Get(_ context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProjectStore) ListActive(_ context.Context) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Project
	for _, p := range m.projects {
		if p.Active() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProjectStore) ListMonitored(_ context.Context) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Project
	for _, p := range m.projects {
		if p.Active() && p.DriveFolderID != "" {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProjectStore) SetLastDrivePoll(_ context.Context, projectID string, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return domain.ErrNotFound
	}
	p.LastDrivePoll = t
	m.watermarks[projectID] = t
	return nil
}

func (m *mockProjectStore) watermark(projectID string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.watermarks[projectID]
	return t, ok
}

// mockParticipantStore implements driven.ParticipantStore.
type mockParticipantStore struct {
	roster  []domain.Participant
	listErr error
}

func (m *mockParticipantStore) ListByProject(_ context.Context, _ string) ([]domain.Participant, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.roster, nil
}

// mockItemStore implements driven.ItemStore in memory.
type mockItemStore struct {
	mu      sync.Mutex
	items   []domain.ProjectItem
	saveErr error
}

func (m *mockItemStore) Save(_ context.Context, item *domain.ProjectItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = append(m.items, *item)
	return nil
}

func (m *mockItemStore) SaveBatch(_ context.Context, items []domain.ProjectItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = append(m.items, items...)
	return nil
}

func (m *mockItemStore) ListBySource(_ context.Context, sourceID string) ([]domain.ProjectItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ProjectItem
	for _, item := range m.items {
		if item.SourceID == sourceID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockItemStore) saved() []domain.ProjectItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ProjectItem(nil), m.items...)
}

// mockCompletionService returns a canned completion.
type mockCompletionService struct {
	mu         sync.Mutex
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (m *mockCompletionService) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockCompletionService) ModelName() string            { return "mock" }
func (m *mockCompletionService) Ping(_ context.Context) error { return nil }
func (m *mockCompletionService) Close() error                 { return nil }

// mockEmbeddingService returns a fixed vector.
type mockEmbeddingService struct {
	vector []float32
	err    error
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return len(m.vector) }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockMailbox implements driven.Mailbox with canned messages.
type mockMailbox struct {
	messages map[string]*driven.MailMessage
	listErr  error
	getErr   error
}

func (m *mockMailbox) ListUnread(_ context.Context, _ string, _ int64) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]string, 0, len(m.messages))
	for id := range m.messages {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *mockMailbox) GetMessage(_ context.Context, id string) (*driven.MailMessage, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	msg, ok := m.messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return msg, nil
}

// mockCloudFolder implements driven.CloudFolder with canned files.
type mockCloudFolder struct {
	files       []driven.FolderFile
	content     map[string][]byte
	listErr     error
	downloadErr map[string]error
}

func (m *mockCloudFolder) ListNewFiles(_ context.Context, _ string, since time.Time) ([]driven.FolderFile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []driven.FolderFile
	for _, f := range m.files {
		if !since.IsZero() && !f.ModifiedTime.After(since) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (m *mockCloudFolder) Download(_ context.Context, fileID string) ([]byte, error) {
	if err, ok := m.downloadErr[fileID]; ok {
		return nil, err
	}
	return m.content[fileID], nil
}
