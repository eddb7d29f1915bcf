package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// Ensure RefreshTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*RefreshTokenProvider)(nil)

// RefreshTokenProvider exchanges a long-lived user refresh token for
// access tokens against Google's token endpoint.
type RefreshTokenProvider struct {
	source oauth2.TokenSource

	mu            sync.RWMutex
	cachedToken   string
	cacheExpiry   time.Time
	refreshBuffer time.Duration
}

// NewRefreshTokenProvider builds a provider from OAuth client
// credentials and a previously obtained refresh token.
func NewRefreshTokenProvider(clientID, clientSecret, refreshToken string) *RefreshTokenProvider {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleauth.Endpoint,
	}
	seed := &oauth2.Token{RefreshToken: refreshToken}
	return &RefreshTokenProvider{
		source:        cfg.TokenSource(context.Background(), seed),
		refreshBuffer: 5 * time.Minute,
	}
}

// GetToken returns a valid access token, refreshing if necessary.
func (p *RefreshTokenProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.RLock()
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		token := p.cachedToken
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

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

// AuthMethod returns AuthRefreshToken.
func (p *RefreshTokenProvider) AuthMethod() driven.AuthMethod {
	return driven.AuthRefreshToken
}

// InvalidateCache clears the cached token.
func (p *RefreshTokenProvider) InvalidateCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cachedToken = ""
	p.cacheExpiry = time.Time{}
}
