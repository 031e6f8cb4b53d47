package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hungrymonkey/finder/internal/domain/providers"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
)

// StaticTokenProvider always returns the same token
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a provider for a fixed token
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: strings.TrimSpace(token)}
}

// Token returns the configured token
func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	return p.token, nil
}

// FileTokenProvider reads the token from a file on every call so a token
// refreshed by another process is picked up.
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider creates a provider reading path
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// Token returns the file's trimmed contents. A missing file means no token.
func (p *FileTokenProvider) Token(ctx context.Context) (string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ChainTokenProvider returns the first non-empty token of its providers
type ChainTokenProvider struct {
	providers []providers.TokenProvider
}

// NewChainTokenProvider creates a provider trying each of ps in order
func NewChainTokenProvider(ps ...providers.TokenProvider) *ChainTokenProvider {
	return &ChainTokenProvider{providers: ps}
}

// Token returns the first token found. Errors are returned only when no
// provider yields a token.
func (p *ChainTokenProvider) Token(ctx context.Context) (string, error) {
	var errs []error
	for _, tp := range p.providers {
		token, err := tp.Token(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if token != "" {
			return token, nil
		}
	}
	return "", errors.Join(errs...)
}

// ExpiryCheckingProvider hides tokens that are JWTs past their exp claim.
// Opaque tokens pass through untouched. The signature is not verified; that
// is the API's job.
type ExpiryCheckingProvider struct {
	inner  providers.TokenProvider
	leeway time.Duration
	now    func() time.Time
}

// NewExpiryCheckingProvider wraps inner. Tokens expiring within leeway are
// treated as already expired.
func NewExpiryCheckingProvider(inner providers.TokenProvider, leeway time.Duration) *ExpiryCheckingProvider {
	return &ExpiryCheckingProvider{inner: inner, leeway: leeway, now: time.Now}
}

// Token returns the inner token, or "" when it is an expired JWT
func (p *ExpiryCheckingProvider) Token(ctx context.Context) (string, error) {
	token, err := p.inner.Token(ctx)
	if err != nil || token == "" {
		return token, err
	}

	exp, ok := ExpiresAt(token)
	if ok && !exp.After(p.now().Add(p.leeway)) {
		observability.LoggerFromContext(ctx).Warn().
			Time("expired_at", exp).
			Msg("Ignoring expired auth token")
		return "", nil
	}
	return token, nil
}

// ExpiresAt returns the exp claim of a JWT. The boolean is false for tokens
// that are not JWTs or carry no exp.
func ExpiresAt(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// FromConfig builds the provider chain for the given token and token file.
// Both may be empty, in which case the provider never yields a token.
func FromConfig(token, tokenFile string) providers.TokenProvider {
	var chain []providers.TokenProvider
	if strings.TrimSpace(token) != "" {
		chain = append(chain, NewStaticTokenProvider(token))
	}
	if strings.TrimSpace(tokenFile) != "" {
		chain = append(chain, NewFileTokenProvider(tokenFile))
	}
	return NewExpiryCheckingProvider(NewChainTokenProvider(chain...), 30*time.Second)
}
