package mock

import "github.com/geogate/geogate"

var _ geogate.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of geogate.Classifier.
type Classifier struct {
	ClassifyFn  func(sig geogate.RequestSignals) geogate.DetectionResult
	ServiceOfFn func(sig geogate.RequestSignals) (geogate.AIService, bool)
}

func (c *Classifier) Classify(sig geogate.RequestSignals) geogate.DetectionResult {
	return c.ClassifyFn(sig)
}

func (c *Classifier) ServiceOf(sig geogate.RequestSignals) (geogate.AIService, bool) {
	if c.ServiceOfFn == nil {
		return "", false
	}
	return c.ServiceOfFn(sig)
}
