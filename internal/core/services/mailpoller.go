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
	"github.com/soubim/decisiond/internal/metrics"
)

// MailPoller acquires inbound email on a fixed interval. Messages that
// resolve to no project are dropped, not retried; known messages are
// skipped by the dedup gate.
type MailPoller struct {
	mailbox    driven.Mailbox
	sources    driven.SourceStore
	matcher    *ProjectMatcher
	summariser *Summariser
	label      string
	maxResults int64
	log        *zap.Logger
}

// NewMailPoller creates the mailbox poller.
func NewMailPoller(
	mailbox driven.Mailbox,
	sources driven.SourceStore,
	matcher *ProjectMatcher,
	summariser *Summariser,
	label string,
	maxResults int64,
	log *zap.Logger,
) *MailPoller {
	return &MailPoller{
		mailbox:    mailbox,
		sources:    sources,
		matcher:    matcher,
		summariser: summariser,
		label:      label,
		maxResults: maxResults,
		log:        log.Named("mailpoller"),
	}
}

// Poll runs one acquisition cycle. A provider error aborts the cycle;
// unread messages stay unread and the next tick retries them.
func (p *MailPoller) Poll(ctx context.Context) error {
	ids, err := p.mailbox.ListUnread(ctx, p.label, p.maxResults)
	if err != nil {
		metrics.PollCycles.WithLabelValues("gmail", "error").Inc()
		return fmt.Errorf("list unread: %w", err)
	}

	created := 0
	for _, id := range ids {
		ok, err := p.processMessage(ctx, id)
		if err != nil {
			metrics.PollCycles.WithLabelValues("gmail", "error").Inc()
			return err
		}
		if ok {
			created++
		}
	}

	metrics.PollCycles.WithLabelValues("gmail", "ok").Inc()
	p.log.Info("mail poll cycle complete",
		zap.Int("listed", len(ids)), zap.Int("created", created))
	return nil
}

// processMessage fetches, matches, dedups and stores one message.
// Returns true when a new source was created.
func (p *MailPoller) processMessage(ctx context.Context, id string) (bool, error) {
	msg, err := p.mailbox.GetMessage(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get message %s: %w", id, err)
	}

	projectID, err := p.matcher.Match(ctx, msg.Labels, msg.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNoProjectMatch) {
			// Dropped, not retried.
			return false, nil
		}
		return false, err
	}

	_, err = p.sources.FindByEmailMessage(ctx, msg.ThreadID, msg.MessageID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	src := &domain.Source{
		ID:            uuid.NewString(),
		ProjectID:     projectID,
		Type:          domain.SourceEmail,
		Title:         msg.Subject,
		OccurredAt:    msg.Date,
		Status:        domain.StatusPending,
		RawContent:    msg.Body,
		Summary:       p.summariser.Summarise(ctx, msg.Subject, msg.Body),
		WebhookID:     msg.MessageID,
		EmailFrom:     msg.From,
		EmailTo:       msg.To,
		EmailCC:       msg.CC,
		EmailThreadID: msg.ThreadID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := p.sources.Save(ctx, src); err != nil {
		return false, fmt.Errorf("save email source: %w", err)
	}
	metrics.SourcesCreated.WithLabelValues("email").Inc()

	p.log.Info("email source queued",
		zap.String("source_id", src.ID),
		zap.String("project_id", projectID),
		zap.String("subject", msg.Subject))
	return true, nil
}
