package organize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// maxResponseBytes caps how much of a reorganizer response is read.
const maxResponseBytes = 16 << 20

// Compile-time interface check: HTTPReorganizer must implement Reorganizer.
var _ Reorganizer = (*HTTPReorganizer)(nil)

// HTTPReorganizer calls an external reorganization service over HTTP.
// The whole collection is POSTed as JSON and the response carries the
// replacement collection in the same shape.
type HTTPReorganizer struct {
	endpoint string
	token    string
	client   *http.Client
}

// organizePayload is the request and response body shape.
type organizePayload struct {
	Notes []types.Note `json:"notes"`
}

// NewHTTPReorganizer builds a client from the organizer config.
// Returns ErrEndpointEmpty if no endpoint is configured; a zero
// timeout falls back to the default.
func NewHTTPReorganizer(cfg types.OrganizerConfig) (*HTTPReorganizer, error) {
	if cfg.Endpoint == "" {
		return nil, types.ErrEndpointEmpty
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultOrganizerTimeout
	}
	return &HTTPReorganizer{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Reorganize sends the snapshot and decodes the reorganized
// collection. Transport and non-2xx failures surface as plain errors
// (the workflow tags them as transport); an undecodable body is tagged
// ErrBadResult here because the service did answer.
func (r *HTTPReorganizer) Reorganize(ctx context.Context, notes []types.Note) ([]types.Note, error) {
	body, err := json.Marshal(organizePayload{Notes: notes})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling reorganizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
		return nil, fmt.Errorf("reorganizer returned %s", resp.Status)
	}

	var payload organizePayload
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrBadResult, err)
	}
	return payload.Notes, nil
}
