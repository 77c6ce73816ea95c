// Package docsource fetches inspection drawings from the document
// service and validates them before they reach the annotation surface.
package docsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxDrawingBytes caps the accepted drawing size. Scanned inspection
// drawings run a few MB; anything past this is a mis-uploaded file.
const MaxDrawingBytes = 50 << 20

var (
	// ErrInvalidDocument marks a payload that is not a PDF.
	ErrInvalidDocument = errors.New("docsource: not a valid PDF document")
	// ErrTooLarge marks a drawing over the size cap.
	ErrTooLarge = errors.New("docsource: drawing exceeds size limit")
	// ErrNotFound marks an item with no drawing on the service.
	ErrNotFound = errors.New("docsource: drawing not found")
)

var pdfMagic = []byte("%PDF-")

// pdfHeaderWindow bounds the signature scan. Scanned drawings
// sometimes carry a BOM or preamble junk before the header, so the
// signature is accepted anywhere in the first 512 bytes.
const pdfHeaderWindow = 512

// ValidateDrawing checks the payload is a plausible, bounded PDF.
func ValidateDrawing(doc []byte) error {
	if len(doc) > MaxDrawingBytes {
		return ErrTooLarge
	}
	window := doc
	if len(window) > pdfHeaderWindow {
		window = window[:pdfHeaderWindow]
	}
	if !bytes.Contains(window, pdfMagic) {
		return ErrInvalidDocument
	}
	return nil
}

// Client fetches drawings from the document service over HTTP.
type Client struct {
	base   string
	client *http.Client
}

// NewClient creates a document-service client for the given base URL.
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchDrawing downloads and validates the drawing for an inspection
// item. A 404 maps to ErrNotFound so callers can show the "no drawing
// attached" state instead of a generic failure.
func (c *Client) FetchDrawing(ctx context.Context, itemID string) ([]byte, error) {
	endpoint := c.base + "/items/" + url.PathEscape(itemID) + "/drawing"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch drawing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch drawing: service returned %s", resp.Status)
	}

	doc, err := readBounded(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch drawing: %w", err)
	}
	if err := ValidateDrawing(doc); err != nil {
		log.Warn().Err(err).Str("item", itemID).Int("bytes", len(doc)).
			Msg("rejected drawing payload")
		return nil, err
	}
	return doc, nil
}

// readBounded reads a response body up to one byte past the drawing
// size cap so oversize payloads are detectable without buffering them
// whole.
func readBounded(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, MaxDrawingBytes+1))
}
