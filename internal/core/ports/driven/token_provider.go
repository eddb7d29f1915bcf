package driven

import "context"

// AuthMethod identifies how a provider credential was obtained.
type AuthMethod string

const (
	// AuthServiceAccount is a long-lived service credential.
	AuthServiceAccount AuthMethod = "service_account"
	// AuthRefreshToken is a refreshable delegated user token.
	AuthRefreshToken AuthMethod = "refresh_token"
)

// TokenProvider provides access tokens for authenticated provider calls.
// Implementations cache a validated token and refresh only when it is
// absent or expired. A refresh failure surfaces to the caller, which
// aborts the current poll cycle; there is no nested retry loop.
type TokenProvider interface {
	// GetToken returns a valid access token, refreshing if needed.
	GetToken(ctx context.Context) (string, error)

	// AuthMethod returns how the credential was obtained.
	AuthMethod() AuthMethod

	// InvalidateCache discards any cached token so the next GetToken
	// mints a fresh one. Called after an unauthorised provider response.
	InvalidateCache()
}
