package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"balloon-annotator/internal/report"
)

// Remote is the remote annotation store: save a snapshot keyed by
// inspection id, and load the last saved snapshot or ErrNotFound.
type Remote interface {
	Save(ctx context.Context, snap report.Snapshot) error
	Load(ctx context.Context, inspectionID string) (report.Snapshot, error)
}

// HTTPRemote talks JSON to the inspection-report service.
type HTTPRemote struct {
	base   string
	client *http.Client
}

// NewHTTPRemote creates a client for the given base URL.
func NewHTTPRemote(base string, timeout time.Duration) *HTTPRemote {
	return &HTTPRemote{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

// Save submits the snapshot for its inspection id.
func (r *HTTPRemote) Save(ctx context.Context, snap report.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	endpoint := r.base + "/inspections/" + url.PathEscape(snap.InspectionID) + "/annotations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("save snapshot: remote returned %s", resp.Status)
	}
	return nil
}

// Load fetches the last saved snapshot for an inspection id. A 404
// from the service maps to ErrNotFound.
func (r *HTTPRemote) Load(ctx context.Context, inspectionID string) (report.Snapshot, error) {
	endpoint := r.base + "/inspections/" + url.PathEscape(inspectionID) + "/annotations"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return report.Snapshot{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return report.Snapshot{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return report.Snapshot{}, fmt.Errorf("load snapshot: remote returned %s", resp.Status)
	}

	var snap report.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return report.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
