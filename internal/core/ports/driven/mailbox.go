package driven

import (
	"context"
	"time"
)

// MailMessage is one message fetched from the mailbox provider, already
// reduced to plain text by the adapter.
type MailMessage struct {
	// MessageID is the provider message identifier. Together with
	// ThreadID it forms the channel dedup key.
	MessageID string

	// ThreadID is the provider conversation identifier.
	ThreadID string

	// Subject is the decoded subject line.
	Subject string

	// From is the sender address.
	From string

	// To and CC are recipient addresses.
	To []string
	CC []string

	// Date is the message date in UTC.
	Date time.Time

	// Labels are user-assigned label names; system labels are excluded.
	Labels []string

	// Body is the plain-text body. HTML-only messages arrive with
	// markup stripped; nested multipart bodies are flattened.
	Body string
}

// Mailbox lists and fetches unread messages from the mail provider.
// One ListUnread + GetMessage pass constitutes a poll cycle; the
// adapter owns authentication and quota handling.
type Mailbox interface {
	// ListUnread returns the IDs of unread messages, optionally limited
	// to a label, up to max results.
	ListUnread(ctx context.Context, label string, max int64) ([]string, error)

	// GetMessage fetches and decodes a full message.
	GetMessage(ctx context.Context, id string) (*MailMessage, error)
}

// FolderFile is one entry discovered in a monitored cloud folder.
type FolderFile struct {
	// ID is the provider file identifier and the channel dedup key.
	ID string

	// Name is the file name.
	Name string

	// MIMEType is the provider-reported content type.
	MIMEType string

	// Size is the file size in bytes.
	Size int64

	// ModifiedTime is the provider modification time in UTC.
	ModifiedTime time.Time

	// WebViewLink is the provider's browser URL for the file.
	WebViewLink string
}

// CloudFolder lists and downloads files from the storage provider.
type CloudFolder interface {
	// ListNewFiles returns supported files in a folder modified after
	// since (all files when since is zero).
	ListNewFiles(ctx context.Context, folderID string, since time.Time) ([]FolderFile, error)

	// Download returns the raw bytes of a file.
	Download(ctx context.Context, fileID string) ([]byte, error)
}
