package format

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/earmark/internal/archive"
)

// peekSize is how much of a file Detect inspects for markers.
const peekSize = 4096

// DetectResult reports the outcome of format detection.
type DetectResult struct {
	Detected    bool
	Format      string
	Compression archive.Compression
	Reason      string
}

// ByExtension returns the handler whose extensions match path, ignoring a
// compression suffix, or nil.
func ByExtension(path string) *Handler {
	ext := strings.ToLower(filepath.Ext(archive.TrimCompression(path)))
	if ext == "" {
		return nil
	}
	for _, h := range List() {
		for _, e := range h.Manifest.Extensions {
			if strings.EqualFold(e, ext) {
				return h
			}
		}
	}
	return nil
}

// Detect identifies the format of the file at path. Content markers are
// checked first, on the decompressed content; the extension breaks ties
// and is the fallback when no markers match.
func Detect(path string) (*DetectResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return &DetectResult{Reason: fmt.Sprintf("cannot stat: %v", err)}, nil
	}
	if info.IsDir() {
		return &DetectResult{Reason: "path is a directory, not a file"}, nil
	}

	c := archive.CompressionOf(path)
	head, err := archive.Peek(path, peekSize)
	if err != nil {
		return &DetectResult{Compression: c, Reason: fmt.Sprintf("cannot read: %v", err)}, nil
	}

	byExt := ByExtension(path)
	var matches []*Handler
	for _, h := range List() {
		if matchesMarkers(head, h.Manifest.Markers) {
			matches = append(matches, h)
		}
	}
	for _, h := range matches {
		if h == byExt || len(matches) == 1 {
			return &DetectResult{
				Detected:    true,
				Format:      h.Name(),
				Compression: c,
				Reason:      fmt.Sprintf("%s markers detected", h.Name()),
			}, nil
		}
	}
	if len(matches) > 0 {
		return &DetectResult{
			Detected:    true,
			Format:      matches[0].Name(),
			Compression: c,
			Reason:      fmt.Sprintf("%s markers detected", matches[0].Name()),
		}, nil
	}
	if byExt != nil {
		return &DetectResult{
			Detected:    true,
			Format:      byExt.Name(),
			Compression: c,
			Reason:      fmt.Sprintf("%s file extension detected", byExt.Name()),
		}, nil
	}
	return &DetectResult{Compression: c, Reason: "no registered format matches"}, nil
}

func matchesMarkers(head []byte, markers []string) bool {
	if len(markers) == 0 {
		return false
	}
	for _, m := range markers {
		if !bytes.Contains(head, []byte(m)) {
			return false
		}
	}
	return true
}
