// Package gmail implements the mailbox acquisition channel on the
// Gmail API. It reduces provider messages to plain text and hides
// quota handling behind the shared call wrapper.
package gmail

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/soubim/decisiond/internal/connectors/google"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// Ensure Mailbox implements the port.
var _ driven.Mailbox = (*Mailbox)(nil)

// systemLabels are Gmail-internal label IDs, excluded from the label
// names handed to the project matcher.
var systemLabels = map[string]bool{
	"INBOX":                true,
	"SENT":                 true,
	"UNREAD":               true,
	"STARRED":              true,
	"IMPORTANT":            true,
	"SPAM":                 true,
	"TRASH":                true,
	"DRAFT":                true,
	"CATEGORY_PERSONAL":    true,
	"CATEGORY_SOCIAL":      true,
	"CATEGORY_PROMOTIONS":  true,
	"CATEGORY_UPDATES":     true,
	"CATEGORY_FORUMS":      true,
}

// Mailbox is the Gmail implementation of driven.Mailbox.
type Mailbox struct {
	provider driven.TokenProvider
	caller   *google.Caller

	mu         sync.Mutex
	svc        *gmailapi.Service
	labelNames map[string]string // label ID -> display name
}

// NewMailbox creates a Gmail mailbox for the given credential provider.
func NewMailbox(provider driven.TokenProvider) *Mailbox {
	caller := google.NewCaller(google.ServiceGmail)
	caller.OnUnauthorized(provider.InvalidateCache)
	return &Mailbox{
		provider:   provider,
		caller:     caller,
		labelNames: make(map[string]string),
	}
}

// service lazily constructs the Gmail API client. Token refresh happens
// inside the oauth2 TokenSource on each request.
func (m *Mailbox) service(ctx context.Context) (*gmailapi.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.svc != nil {
		return m.svc, nil
	}
	svc, err := google.NewGmailService(ctx, google.NewTokenSource(ctx, m.provider))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	m.svc = svc
	return svc, nil
}

// ListUnread returns the IDs of unread messages, optionally limited to
// a label, up to max results.
func (m *Mailbox) ListUnread(ctx context.Context, label string, max int64) ([]string, error) {
	svc, err := m.service(ctx)
	if err != nil {
		return nil, err
	}

	query := "is:unread"
	if label != "" {
		query += " label:" + label
	}

	var resp *gmailapi.ListMessagesResponse
	err = m.caller.Do(ctx, func() error {
		var callErr error
		resp, callErr = svc.Users.Messages.List("me").
			Q(query).MaxResults(max).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

// GetMessage fetches a full message and reduces it to plain text.
func (m *Mailbox) GetMessage(ctx context.Context, id string) (*driven.MailMessage, error) {
	svc, err := m.service(ctx)
	if err != nil {
		return nil, err
	}

	var msg *gmailapi.Message
	err = m.caller.Do(ctx, func() error {
		var callErr error
		msg, callErr = svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}

	headers := headerMap(msg.Payload)

	out := &driven.MailMessage{
		MessageID: msg.Id,
		ThreadID:  msg.ThreadId,
		Subject:   headers["Subject"],
		From:      parseAddress(headers["From"]),
		To:        parseAddressList(headers["To"]),
		CC:        parseAddressList(headers["Cc"]),
		Date:      parseDate(headers["Date"]),
		Labels:    m.resolveLabels(ctx, svc, msg.LabelIds),
		Body:      ExtractBody(msg.Payload),
	}
	if out.Subject == "" {
		out.Subject = "(no subject)"
	}
	return out, nil
}

// resolveLabels maps label IDs to display names, skipping system labels.
// Lookups are cached for the lifetime of the mailbox; a failed lookup
// drops that label rather than failing the message.
func (m *Mailbox) resolveLabels(ctx context.Context, svc *gmailapi.Service, labelIDs []string) []string {
	var names []string
	for _, labelID := range labelIDs {
		if systemLabels[labelID] {
			continue
		}

		m.mu.Lock()
		name, cached := m.labelNames[labelID]
		m.mu.Unlock()

		if !cached {
			var info *gmailapi.Label
			err := m.caller.Do(ctx, func() error {
				var callErr error
				info, callErr = svc.Users.Labels.Get("me", labelID).Context(ctx).Do()
				return callErr
			})
			if err != nil {
				continue
			}
			name = info.Name
			m.mu.Lock()
			m.labelNames[labelID] = name
			m.mu.Unlock()
		}

		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// headerMap flattens payload headers into a name -> value map.
func headerMap(payload *gmailapi.MessagePart) map[string]string {
	headers := make(map[string]string)
	if payload == nil {
		return headers
	}
	for _, h := range payload.Headers {
		headers[h.Name] = h.Value
	}
	return headers
}

// parseAddress extracts the bare address from an RFC 5322 header value.
func parseAddress(raw string) string {
	if raw == "" {
		return ""
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return addr.Address
}

// parseAddressList extracts bare addresses from a comma-separated header.
func parseAddressList(raw string) []string {
	if raw == "" {
		return nil
	}
	list, err := mail.ParseAddressList(raw)
	if err != nil {
		// Fall back to naive splitting for malformed headers.
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if addr := parseAddress(part); addr != "" {
				out = append(out, addr)
			}
		}
		return out
	}
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Address)
	}
	return out
}

// parseDate parses an RFC 5322 date header, falling back to now.
func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	t, err := mail.ParseDate(raw)
	if err != nil {
		return time.Now().UTC()
	}
	return t.UTC()
}
