package machine

import (
	"encoding/json"
	"fmt"
	"gopkg.in/yaml.v3"
	"path/filepath"
	"strings"
)

// Format represents a document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf infers the document format from a file name or URL
func FormatOf(URL string) Format {
	switch strings.ToLower(filepath.Ext(URL)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode decodes and validates a machine document
func Decode(data []byte, format Format) (*Machine, error) {
	ret := New()
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, ret)
	default:
		err = json.Unmarshal(data, ret)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode machine %s document: %w", format, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Encode encodes a value (machine or result document) in the given format
func Encode(v interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(v)
	default:
		return json.MarshalIndent(v, "", "  ")
	}
}
