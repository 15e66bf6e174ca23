package tooring

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"io"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// NewLogger creates a logger writing to writer at level ("debug", "info", ...)
// in text or json format
func NewLogger(level, format string, writer io.Writer) (*logrus.Logger, error) {
	ret := logrus.New()
	if writer != nil {
		ret.SetOutput(writer)
	}
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("failed to parse log level: %w", err)
		}
		ret.SetLevel(lvl)
	}
	switch format {
	case "", LogFormatText:
		ret.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case LogFormatJSON:
		ret.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unsupported log format: %v", format)
	}
	return ret, nil
}
