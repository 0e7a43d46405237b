package slog

import (
	"log/slog"

	"github.com/geogate/geogate"
)

// Ensure LoggingClassifier implements geogate.Classifier.
var _ geogate.Classifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a Classifier with per-verdict debug logging.
type LoggingClassifier struct {
	next   geogate.Classifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next geogate.Classifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs the verdict.
func (c *LoggingClassifier) Classify(sig geogate.RequestSignals) geogate.DetectionResult {
	result := c.next.Classify(sig)
	c.logger.Debug("classify",
		"user_agent", sig.UserAgent,
		"is_ai", result.IsAI,
		"confidence", result.Confidence,
		"signals", result.SignalsObserved,
	)
	return result
}

// ServiceOf delegates to the wrapped classifier.
func (c *LoggingClassifier) ServiceOf(sig geogate.RequestSignals) (geogate.AIService, bool) {
	return c.next.ServiceOf(sig)
}
