package main

import (
	"strings"

	"github.com/geogate/geogate"
)

// Run executes the classify command: build request signals from the
// flags and print the verdict as JSON.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	sig := geogate.RequestSignals{
		UserAgent: c.UserAgent,
		Accept:    c.Accept,
		Headers:   lowerKeys(c.Header),
		Query:     lowerKeys(c.Query),
	}

	result := deps.Classifier.Classify(sig)
	out := struct {
		geogate.DetectionResult
		Service geogate.AIService `json:"service,omitempty"`
	}{DetectionResult: result}
	if service, ok := deps.Classifier.ServiceOf(sig); ok {
		out.Service = service
	}
	return printJSON(deps, out)
}

func lowerKeys(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
