// Command stamp burns a saved annotation set into a PDF drawing
// without the GUI. Useful for re-generating ballooned drawings from
// cached annotation files.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/internal/docsource"
	"balloon-annotator/internal/export"
	"balloon-annotator/internal/report"
)

func main() {
	drawingPath := flag.String("drawing", "", "Path to the source PDF drawing")
	annotPath := flag.String("annotations", "", "Path to the annotation JSON (balloon list or report snapshot)")
	outPath := flag.String("o", "", "Output path (default <part>_ballooned.pdf)")
	flag.Parse()

	if *drawingPath == "" || *annotPath == "" {
		fmt.Println("Usage: stamp -drawing <pdf> -annotations <json> [-o <out.pdf>]")
		os.Exit(1)
	}

	doc, err := os.ReadFile(*drawingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read drawing: %v\n", err)
		os.Exit(1)
	}
	if err := docsource.ValidateDrawing(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid drawing: %v\n", err)
		os.Exit(1)
	}

	balloons, part, err := loadAnnotations(*annotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read annotations: %v\n", err)
		os.Exit(1)
	}
	if len(balloons) == 0 {
		fmt.Println("No balloons in the annotation file; nothing to stamp.")
		os.Exit(1)
	}

	page, err := export.PageSize(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read page size: %v\n", err)
		os.Exit(1)
	}

	// Percent positions resolve against the page itself when no live
	// viewport exists.
	out, err := export.Stamp(doc, balloons, page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Stamping failed: %v\n", err)
		os.Exit(1)
	}

	dest := *outPath
	if dest == "" {
		dest = export.ArtifactName(part)
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Stamped %d balloons onto %.0fx%.0fpt page -> %s\n",
		len(balloons), page.Width, page.Height, dest)
}

// loadAnnotations accepts either a bare balloon list (the local cache
// format) or a full report snapshot (the remote format).
func loadAnnotations(path string) ([]annotation.Balloon, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	var balloons []annotation.Balloon
	if err := json.Unmarshal(data, &balloons); err == nil {
		return balloons, "", nil
	}

	var snap report.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, "", fmt.Errorf("not a balloon list or report snapshot: %w", err)
	}
	return snap.Balloons, snap.PartName, nil
}
