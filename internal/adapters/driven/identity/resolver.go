// Package identity provides an identity resolver adapter backed by a
// candidate directory HTTP API.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
)

// Ensure Resolver implements the interface.
var _ driven.IdentityResolver = (*Resolver)(nil)

// Default configuration values.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 2
)

// Config holds configuration for the directory resolver.
type Config struct {
	// BaseURL is the directory API base URL (required).
	BaseURL string

	// Token is the bearer token authorizing disclosure lookups (required).
	Token string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond caps outbound lookups (default: 2).
	RequestsPerSecond float64
}

// Resolver resolves masked profiles to candidate references through the
// directory API. Lookups are rate limited so a burst of disclosures
// does not hammer the directory.
type Resolver struct {
	client  *http.Client
	baseURL string
	token   string
	limiter *rate.Limiter
}

// resolveRequest is the directory API request format.
type resolveRequest struct {
	AgeBracket        string   `json:"age_bracket,omitempty"`
	ExperienceSummary string   `json:"experience_summary,omitempty"`
	Skills            []string `json:"skills,omitempty"`
}

// resolveResponse is the directory API response format.
type resolveResponse struct {
	CandidateRef string `json:"candidate_ref"`
	Error        string `json:"error,omitempty"`
}

// NewResolver creates a new directory resolver.
func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("directory: base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("directory: token is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Resolver{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// Resolve looks up the real candidate reference for a masked profile.
// Failures are reported as domain.ErrIdentityResolution so callers can
// distinguish them from cancellation.
func (r *Resolver) Resolve(ctx context.Context, profile domain.MaskedProfile) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	jsonBody, err := json.Marshal(resolveRequest{
		AgeBracket:        profile.AgeBracket,
		ExperienceSummary: profile.ExperienceSummary,
		Skills:            profile.Skills,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrIdentityResolution, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		r.baseURL+"/v1/resolve",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrIdentityResolution, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: send request: %v", domain.ErrIdentityResolution, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrIdentityResolution, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: directory returned status %d: %s",
			domain.ErrIdentityResolution, resp.StatusCode, string(body))
	}

	var resolved resolveResponse
	if err := json.Unmarshal(body, &resolved); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrIdentityResolution, err)
	}
	if resolved.Error != "" {
		return "", fmt.Errorf("%w: %s", domain.ErrIdentityResolution, resolved.Error)
	}
	if resolved.CandidateRef == "" {
		return "", fmt.Errorf("%w: directory returned no candidate ref", domain.ErrIdentityResolution)
	}

	return resolved.CandidateRef, nil
}
