// Package auth provides Google credential providers for the acquisition
// channels. Service accounts are preferred; a user refresh token is the
// fallback when domain-wide delegation is unavailable.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// Ensure ServiceAccountProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ServiceAccountProvider)(nil)

// ServiceAccountProvider mints access tokens from a service account key.
// The key arrives base64-encoded so it can travel through environment
// variables and TOML without escaping trouble.
type ServiceAccountProvider struct {
	source oauth2.TokenSource

	mu            sync.RWMutex
	cachedToken   string
	cacheExpiry   time.Time
	refreshBuffer time.Duration
}

// NewServiceAccountProvider builds a provider from a base64-encoded
// service account JSON key and the OAuth scopes to request.
func NewServiceAccountProvider(encodedKey string, scopes ...string) (*ServiceAccountProvider, error) {
	keyJSON, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode service account key: %w", err)
	}

	cfg, err := googleauth.JWTConfigFromJSON(keyJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	return &ServiceAccountProvider{
		source:        cfg.TokenSource(context.Background()),
		refreshBuffer: 5 * time.Minute,
	}, nil
}

// GetToken returns a valid access token, minting a fresh one when the
// cached token is close to expiry.
func (p *ServiceAccountProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.RLock()
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		token := p.cachedToken
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock.
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		return p.cachedToken, nil
	}

	token, err := p.source.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}

	p.cachedToken = token.AccessToken
	if !token.Expiry.IsZero() {
		p.cacheExpiry = token.Expiry.Add(-p.refreshBuffer)
	} else {
		p.cacheExpiry = time.Now().Add(1 * time.Hour)
	}
	return p.cachedToken, nil
}

// AuthMethod returns AuthServiceAccount.
func (p *ServiceAccountProvider) AuthMethod() driven.AuthMethod {
	return driven.AuthServiceAccount
}

// InvalidateCache clears the cached token.
func (p *ServiceAccountProvider) InvalidateCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cachedToken = ""
	p.cacheExpiry = time.Time{}
}
