package ingest

import (
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// Format is the encoding of an input file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format tag. Tags are case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.NewUnsupportedFormatError(s)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json", ".ndjson", ".jsonl":
		return FormatJSON, nil
	default:
		return "", errors.NewUnsupportedFormatError(filepath.Ext(path))
	}
}
