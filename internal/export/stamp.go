// Package export burns the balloon set into the source PDF drawing:
// page 1 is imported as a template and circular numbered markers are
// drawn over it at exact document points.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	"github.com/rs/zerolog/log"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/pkg/geometry"
)

const (
	// markerRadius is the balloon radius in document points.
	markerRadius = 9.0
	// markerFontSize is the balloon number font size in points.
	markerFontSize = 9.0
)

// Stamp renders the balloon set onto page 1 of the source PDF and
// returns the new document. The viewport is the live on-screen size of
// the drawing surface at export time; balloon percentages are carried
// through viewport pixels into document points so the markers land
// exactly where the user saw them. An empty balloon list returns the
// original bytes untouched.
func Stamp(doc []byte, balloons []annotation.Balloon, viewport geometry.Size) (out []byte, err error) {
	if len(balloons) == 0 {
		return doc, nil
	}
	if viewport.IsZero() {
		return nil, fmt.Errorf("export: viewport not measured")
	}

	// The PDF importer panics on malformed documents; the export
	// boundary turns that into an error so the caller can degrade to
	// the original file.
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("export: stamping failed: %v", r)
		}
	}()

	pdf := gofpdf.New("P", "pt", "", "")

	rs := io.ReadSeeker(bytes.NewReader(doc))
	tpl := gofpdi.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")

	page, err := firstPageSize(gofpdi.GetPageSizes())
	if err != nil {
		return nil, err
	}

	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: page.Width, Ht: page.Height})
	gofpdi.UseImportedTemplate(pdf, tpl, 0, 0, page.Width, page.Height)

	pdf.SetFont("Helvetica", "B", markerFontSize)
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(255, 255, 255)
	pdf.SetFillColor(229, 57, 53)
	pdf.SetTextColor(255, 255, 255)

	for _, b := range balloons {
		pt := geometry.ToDocumentPoints(b.X, b.Y, viewport, page)
		// The drawing surface uses a top-left origin, document points
		// are bottom-left.
		cx := pt.X
		cy := page.Height - pt.Y

		pdf.Circle(cx, cy, markerRadius, "FD")

		label := fmt.Sprintf("%d", b.Number)
		w := pdf.GetStringWidth(label)
		pdf.Text(cx-w/2, cy+markerFontSize*0.35, label)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: write stamped document: %w", err)
	}
	return buf.Bytes(), nil
}

// StampOrOriginal degrades to the unmodified document when stamping
// fails, so an export can never break the user's workflow. The second
// return value reports whether the markers were actually burned in.
func StampOrOriginal(doc []byte, balloons []annotation.Balloon, viewport geometry.Size) ([]byte, bool) {
	out, err := Stamp(doc, balloons, viewport)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to original drawing")
		return doc, false
	}
	return out, len(balloons) > 0
}

// PageSize reads the native point dimensions of the document's first
// page. The subsystem is single-page; further pages are ignored.
func PageSize(doc []byte) (page geometry.Size, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = geometry.Size{}, fmt.Errorf("export: read page size: %v", r)
		}
	}()

	pdf := gofpdf.New("P", "pt", "", "")
	rs := io.ReadSeeker(bytes.NewReader(doc))
	gofpdi.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")
	return firstPageSize(gofpdi.GetPageSizes())
}

// ArtifactName derives the download file name from the part or item
// identifier.
func ArtifactName(partOrItem string) string {
	if partOrItem == "" {
		partOrItem = "drawing"
	}
	return partOrItem + "_ballooned.pdf"
}

func firstPageSize(sizes map[int]map[string]map[string]float64) (geometry.Size, error) {
	box, ok := sizes[1]["/MediaBox"]
	if !ok {
		return geometry.Size{}, fmt.Errorf("export: document has no readable first page")
	}
	page := geometry.NewSize(box["w"], box["h"])
	if page.IsZero() {
		return geometry.Size{}, fmt.Errorf("export: degenerate page size %vx%v", page.Width, page.Height)
	}
	return page, nil
}
