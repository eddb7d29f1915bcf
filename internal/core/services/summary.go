package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// Summary sizing. The body is truncated before prompting to bound
// token usage; the result is capped for list-view display.
const (
	summaryBodyLimit = 3000
	summaryCharCap   = 150
	summaryMaxTokens = 100
)

// Summariser generates best-effort one-line synopses for queued
// sources. A failed or skipped summary never blocks ingestion.
type Summariser struct {
	completions driven.CompletionService
	log         *zap.Logger
}

// NewSummariser creates a summariser. completions may be nil, in which
// case every call returns an empty summary.
func NewSummariser(completions driven.CompletionService, log *zap.Logger) *Summariser {
	return &Summariser{completions: completions, log: log.Named("summary")}
}

// Summarise produces a one-sentence synopsis of a source body, or ""
// when the model is unavailable or the call fails.
func (s *Summariser) Summarise(ctx context.Context, title, body string) string {
	if s.completions == nil || strings.TrimSpace(body) == "" {
		return ""
	}

	truncated := truncateRunes(body, summaryBodyLimit)

	prompt := fmt.Sprintf(
		"Summarize this in one sentence for a project manager. Subject: %s\n\n%s",
		title, truncated,
	)

	summary, err := s.completions.Complete(ctx, prompt, driven.CompleteOptions{
		MaxTokens: summaryMaxTokens,
	})
	if err != nil {
		s.log.Warn("summary generation failed",
			zap.String("title", title), zap.Error(err))
		return ""
	}

	summary = strings.TrimSpace(summary)
	if len(summary) > summaryCharCap {
		summary = truncateRunes(summary, summaryCharCap-3) + "..."
	}
	return summary
}

// truncateRunes shortens s to at most max bytes, backing off to the
// previous rune boundary so multi-byte characters are never split.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
