package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
	"github.com/soubim/decisiond/internal/document"
	"github.com/soubim/decisiond/internal/metrics"
)

// fileTypeByMIME maps provider MIME types to extraction file types.
var fileTypeByMIME = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"text/plain": "txt",
}

// DrivePoller acquires documents from each monitored project folder on
// a fixed interval. It tracks a per-project watermark of the last
// successful sweep; the watermark only advances when every listed file
// was stored or deduplicated, so a file that failed mid-cycle is seen
// again on the next tick instead of being silently skipped.
type DrivePoller struct {
	folder    driven.CloudFolder
	sources   driven.SourceStore
	projects  driven.ProjectStore
	extractor *document.Extractor
	log       *zap.Logger
}

// NewDrivePoller creates the cloud-folder poller.
func NewDrivePoller(
	folder driven.CloudFolder,
	sources driven.SourceStore,
	projects driven.ProjectStore,
	extractor *document.Extractor,
	log *zap.Logger,
) *DrivePoller {
	return &DrivePoller{
		folder:    folder,
		sources:   sources,
		projects:  projects,
		extractor: extractor,
		log:       log.Named("drivepoller"),
	}
}

// Poll runs one acquisition cycle over all monitored projects. A
// failure in one project's folder does not block the others.
func (p *DrivePoller) Poll(ctx context.Context) error {
	projects, err := p.projects.ListMonitored(ctx)
	if err != nil {
		metrics.PollCycles.WithLabelValues("drive", "error").Inc()
		return fmt.Errorf("list monitored projects: %w", err)
	}

	var firstErr error
	for i := range projects {
		if err := p.pollProject(ctx, &projects[i]); err != nil {
			p.log.Error("folder poll failed",
				zap.String("project_id", projects[i].ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		metrics.PollCycles.WithLabelValues("drive", "error").Inc()
		return firstErr
	}
	metrics.PollCycles.WithLabelValues("drive", "ok").Inc()
	return nil
}

// pollProject sweeps one project's folder for files modified after the
// watermark.
func (p *DrivePoller) pollProject(ctx context.Context, project *domain.Project) error {
	cycleStart := time.Now().UTC()

	files, err := p.folder.ListNewFiles(ctx, project.DriveFolderID, project.LastDrivePoll)
	if err != nil {
		return fmt.Errorf("list folder: %w", err)
	}

	allHandled := true
	created := 0
	for _, file := range files {
		_, err := p.sources.FindByDriveFileID(ctx, file.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if err := p.processFile(ctx, project, file); err != nil {
			p.log.Error("file processing failed, will retry next cycle",
				zap.String("file_id", file.ID),
				zap.String("file_name", file.Name),
				zap.Error(err))
			allHandled = false
			continue
		}
		created++
	}

	if created > 0 {
		p.log.Info("folder sweep complete",
			zap.String("project_id", project.ID),
			zap.Int("listed", len(files)),
			zap.Int("created", created))
	}

	// Holding the watermark on partial failure means the failed file's
	// modified time is still inside the next sweep's window.
	if !allHandled {
		return nil
	}
	return p.projects.SetLastDrivePoll(ctx, project.ID, cycleStart)
}

// processFile downloads one file, extracts its text and queues a
// pending source.
func (p *DrivePoller) processFile(ctx context.Context, project *domain.Project, file driven.FolderFile) error {
	fileType, ok := fileTypeByMIME[file.MIMEType]
	if !ok {
		// Provider-side filtering should prevent this.
		p.log.Warn("skipping unsupported file type",
			zap.String("file_id", file.ID), zap.String("mime_type", file.MIMEType))
		return nil
	}

	content, err := p.folder.Download(ctx, file.ID)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	text, err := p.extractor.ExtractText(ctx, content, fileType)
	if err != nil {
		p.log.Error("text extraction failed, queueing with empty body",
			zap.String("file_id", file.ID), zap.Error(err))
		text = ""
	}

	src := &domain.Source{
		ID:            uuid.NewString(),
		ProjectID:     project.ID,
		Type:          domain.SourceDocument,
		Title:         file.Name,
		OccurredAt:    time.Now().UTC(),
		Status:        domain.StatusPending,
		RawContent:    text,
		DriveFileID:   file.ID,
		DriveFolderID: project.DriveFolderID,
		FileURL:       file.WebViewLink,
		FileType:      fileType,
		FileSize:      file.Size,
		CreatedAt:     time.Now().UTC(),
	}
	if err := p.sources.Save(ctx, src); err != nil {
		return fmt.Errorf("save document source: %w", err)
	}
	metrics.SourcesCreated.WithLabelValues("drive").Inc()
	return nil
}
