package auth

import (
	"errors"

	"github.com/soubim/decisiond/internal/config"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// OAuth scopes requested per channel. Read-only is enough; sources are
// deduplicated by message ID rather than by marking mail as read.
const (
	ScopeGmailReadonly = "https://www.googleapis.com/auth/gmail.readonly"
	ScopeDriveReadonly = "https://www.googleapis.com/auth/drive.readonly"
)

// ErrNoCredentials signals that no usable credential set was configured.
var ErrNoCredentials = errors.New("no google credentials configured")

// NewGmailProvider selects a token provider for the mailbox channel.
// A service account key wins over a user refresh token.
func NewGmailProvider(cfg config.GmailConfig) (driven.TokenProvider, error) {
	if cfg.ServiceAccountJSON != "" {
		return NewServiceAccountProvider(cfg.ServiceAccountJSON, ScopeGmailReadonly)
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.RefreshToken != "" {
		return NewRefreshTokenProvider(cfg.ClientID, cfg.ClientSecret, cfg.RefreshToken), nil
	}
	return nil, ErrNoCredentials
}

// NewDriveProvider selects a token provider for the cloud-folder channel.
func NewDriveProvider(cfg config.DriveConfig) (driven.TokenProvider, error) {
	if cfg.ServiceAccountJSON != "" {
		return NewServiceAccountProvider(cfg.ServiceAccountJSON, ScopeDriveReadonly)
	}
	return nil, ErrNoCredentials
}
