package aligner

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/kbukum/lipsync/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", apperrors.InvalidInput("format", "must be one of: json, yaml")
	}
}

// Encode writes v to w in the given format. JSON is indented.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return apperrors.Internal(err)
		}
		if err := enc.Close(); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	default:
		return apperrors.InvalidInput("format", "unsupported format "+string(f))
	}
}
