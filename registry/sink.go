package registry

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sirupsen/logrus"
)

// LogSink logs a one-line summary per batch. Useful as a default sink and in
// development.
type LogSink struct {
	logger *logrus.Logger
}

// NewLogSink creates a log sink. A nil logger uses the logrus standard
// logger.
func NewLogSink(logger *logrus.Logger) *LogSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogSink{logger: logger}
}

// Export logs the batch summary.
func (s *LogSink) Export(_ context.Context, batch Batch) error {
	s.logger.WithFields(logrus.Fields{
		"batch":     batch.ID,
		"registry":  batch.RegistryID,
		"at":        batch.At,
		"snapshots": len(batch.Snapshots),
	}).Info("metrics batch harvested")
	return nil
}

// JSONSink writes each batch as one JSON document to w.
type JSONSink struct {
	enc *json.Encoder
}

// NewJSONSink creates a JSON sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

// Export encodes the batch.
func (s *JSONSink) Export(_ context.Context, batch Batch) error {
	return s.enc.Encode(batch)
}
