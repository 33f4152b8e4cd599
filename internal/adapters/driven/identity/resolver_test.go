package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

func newResolver(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	resolver, err := NewResolver(Config{
		BaseURL:           server.URL,
		Token:             "test-token",
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)
	return resolver
}

func TestNewResolver_Validation(t *testing.T) {
	_, err := NewResolver(Config{Token: "t"})
	assert.Error(t, err)

	_, err = NewResolver(Config{BaseURL: "http://localhost"})
	assert.Error(t, err)
}

func TestResolver_Resolve(t *testing.T) {
	resolver := newResolver(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/resolve", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req resolveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "30-34", req.AgeBracket)
		assert.Equal(t, []string{"go"}, req.Skills)

		json.NewEncoder(w).Encode(resolveResponse{CandidateRef: "candidate-42"})
	})

	ref, err := resolver.Resolve(context.Background(), domain.MaskedProfile{
		AgeBracket: "30-34",
		Skills:     []string{"go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "candidate-42", ref)
}

func TestResolver_Resolve_ErrorStatus(t *testing.T) {
	resolver := newResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no match", http.StatusNotFound)
	})

	_, err := resolver.Resolve(context.Background(), domain.MaskedProfile{})

	assert.ErrorIs(t, err, domain.ErrIdentityResolution)
}

func TestResolver_Resolve_ErrorBody(t *testing.T) {
	resolver := newResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(resolveResponse{Error: "ambiguous profile"})
	})

	_, err := resolver.Resolve(context.Background(), domain.MaskedProfile{})

	require.ErrorIs(t, err, domain.ErrIdentityResolution)
	assert.Contains(t, err.Error(), "ambiguous profile")
}

func TestResolver_Resolve_EmptyRef(t *testing.T) {
	resolver := newResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(resolveResponse{})
	})

	_, err := resolver.Resolve(context.Background(), domain.MaskedProfile{})

	assert.ErrorIs(t, err, domain.ErrIdentityResolution)
}

func TestResolver_Resolve_Cancelled(t *testing.T) {
	resolver := newResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(resolveResponse{CandidateRef: "x"})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := resolver.Resolve(ctx, domain.MaskedProfile{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrIdentityResolution)
}
