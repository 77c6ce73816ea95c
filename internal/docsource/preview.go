package docsource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"

	_ "golang.org/x/image/tiff"
)

// FetchPreview downloads the pre-rendered raster preview of an item's
// drawing. The service renders page 1 server-side; scans show up as
// PNG or JPEG, some legacy archives as TIFF.
func (c *Client) FetchPreview(ctx context.Context, itemID string) (image.Image, error) {
	endpoint := c.base + "/items/" + url.PathEscape(itemID) + "/preview"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch preview: service returned %s", resp.Status)
	}

	data, err := readBounded(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch preview: %w", err)
	}
	return DecodePreview(data)
}

// DecodePreview decodes a raster preview image.
func DecodePreview(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode preview: degenerate %s image", format)
	}
	return img, nil
}
