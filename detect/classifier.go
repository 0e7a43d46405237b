// Package detect classifies inbound requests as AI crawlers or agents.
// Classification is a pure function of request signals: no I/O, no clock,
// no stored state.
package detect

import (
	"strings"

	"github.com/geogate/geogate"
)

// Ensure Classifier implements geogate.Classifier at compile time.
var _ geogate.Classifier = (*Classifier)(nil)

// crawlerToken binds a lower-case user-agent substring to the provider
// operating that crawler. The table is evaluated in order; the first
// match wins.
type crawlerToken struct {
	token   string
	service geogate.AIService
}

// crawlerTokens is the fixed allow-list of known AI crawler and agent
// user-agent substrings. Matching is case-insensitive substring match
// against the full User-Agent value.
var crawlerTokens = []crawlerToken{
	{"gptbot", geogate.ServiceOpenAI},
	{"oai-searchbot", geogate.ServiceOpenAI},
	{"chatgpt-user", geogate.ServiceOpenAI},
	{"claudebot", geogate.ServiceAnthropic},
	{"claude-web", geogate.ServiceAnthropic},
	{"anthropic-ai", geogate.ServiceAnthropic},
	{"google-extended", geogate.ServiceGoogle},
	{"googleother", geogate.ServiceGoogle},
	{"perplexitybot", geogate.ServicePerplexity},
	{"youbot", geogate.ServiceYouCom},
	{"applebot-extended", geogate.ServiceApple},
	{"applebot", geogate.ServiceApple},
	{"bytespider", geogate.ServiceByteDance},
	{"ccbot", geogate.ServiceCommonCrawl},
	{"cohere-ai", geogate.ServiceCohere},
	{"meta-externalagent", geogate.ServiceMeta},
	{"facebookbot", geogate.ServiceMeta},
	{"amazonbot", geogate.ServiceAmazon},
}

// browserTokens identify mainstream browsers. A user agent carrying one
// of these and no headless marker is a confirmed non-AI browser.
var browserTokens = []string{
	"chrome", "firefox", "safari", "edg/", "opera", "msie", "trident",
}

// suspiciousTokens are generic programmatic clients. They are not AI
// crawlers by themselves, but they disqualify the browser short-circuit
// and lower the confidence of a negative verdict.
var suspiciousTokens = []string{
	"curl", "wget", "python-requests", "python-urllib", "go-http-client",
	"java/", "libwww",
}

// overrideHeaders are the explicit caller-declaration headers. Presence
// alone is sufficient unless the value is an explicit negative.
var overrideHeaders = []string{"x-ai-client", "x-geo-format"}

// overrideQueryParams maps query parameter names to the values that
// declare an AI requester.
var overrideQueryParams = map[string][]string{
	"ai":     {"true", "1"},
	"bot":    {"true", "1"},
	"format": {"geo"},
	"geo":    {"true", "1"},
}

// structuredAcceptTypes are the content types whose presence in Accept,
// absent text/html, suggests a machine reader.
var structuredAcceptTypes = []string{
	"application/json", "application/ld+json", "text/plain",
}

// Classifier implements request-signal AI detection. The zero value is
// the permissive classifier; Strict mode disables the Accept heuristic
// so that only the user-agent allow-list and explicit overrides can
// produce a positive verdict.
type Classifier struct {
	strict bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithStrictMode restricts classification to conclusive signals only.
func WithStrictMode() Option {
	return func(c *Classifier) { c.strict = true }
}

// NewClassifier creates a new Classifier.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify inspects the request signals and returns a verdict with the
// reasons that produced it.
func (c *Classifier) Classify(sig geogate.RequestSignals) geogate.DetectionResult {
	ua := strings.ToLower(sig.UserAgent)
	result := geogate.DetectionResult{Confidence: geogate.ConfidenceLow}

	// Signal 1: known crawler user agent. Conclusive in every mode.
	for _, ct := range crawlerTokens {
		if strings.Contains(ua, ct.token) {
			result.SignalsObserved++
			result.IsAI = true
			result.Confidence = geogate.ConfidenceHigh
			result.Reasons = append(result.Reasons, "user agent matches known AI crawler "+ct.token)
			return result
		}
	}

	// Signal 2: explicit caller declaration. Conclusive in every mode,
	// strict included.
	if reason, ok := c.explicitOverride(sig); ok {
		result.SignalsObserved++
		result.IsAI = true
		result.Confidence = geogate.ConfidenceHigh
		result.Reasons = append(result.Reasons, reason)
		return result
	}

	// Confirmed browsers short-circuit all remaining heuristics.
	if isBrowser(ua) {
		result.Reasons = append(result.Reasons, "user agent is a known browser")
		return result
	}

	if c.strict {
		result.Reasons = append(result.Reasons, "no conclusive signal under strict mode")
		return result
	}

	// Signal 3: structured-format Accept with no text/html.
	if prefersStructured(sig.Accept) {
		result.SignalsObserved++
		result.IsAI = true
		result.Confidence = geogate.ConfidenceMedium
		result.Reasons = append(result.Reasons, "Accept prefers structured formats without text/html")
		return result
	}

	// A generic or missing user agent is suspicious but not positive on
	// its own.
	if ua == "" {
		result.Confidence = geogate.ConfidenceMedium
		result.Reasons = append(result.Reasons, "no user agent supplied")
		return result
	}
	if isSuspicious(ua) {
		result.Confidence = geogate.ConfidenceMedium
		result.Reasons = append(result.Reasons, "generic programmatic user agent")
		return result
	}

	result.Reasons = append(result.Reasons, "no AI signals observed")
	return result
}

// ServiceOf maps a matched crawler user agent to its provider label.
func (c *Classifier) ServiceOf(sig geogate.RequestSignals) (geogate.AIService, bool) {
	ua := strings.ToLower(sig.UserAgent)
	for _, ct := range crawlerTokens {
		if strings.Contains(ua, ct.token) {
			return ct.service, true
		}
	}
	return "", false
}

// explicitOverride reports whether the request carries an explicit AI
// declaration via header or query parameter.
func (c *Classifier) explicitOverride(sig geogate.RequestSignals) (string, bool) {
	for _, name := range overrideHeaders {
		value, ok := sig.Headers[name]
		if !ok {
			continue
		}
		if v := strings.ToLower(strings.TrimSpace(value)); v == "false" || v == "0" {
			continue
		}
		return "explicit header " + name, true
	}
	for name, accepted := range overrideQueryParams {
		value, ok := sig.Query[name]
		if !ok {
			continue
		}
		value = strings.ToLower(strings.TrimSpace(value))
		for _, want := range accepted {
			if value == want {
				return "explicit query parameter " + name + "=" + value, true
			}
		}
	}
	return "", false
}

func isBrowser(ua string) bool {
	if ua == "" || strings.Contains(ua, "headless") {
		return false
	}
	if isSuspicious(ua) {
		return false
	}
	for _, token := range browserTokens {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

func isSuspicious(ua string) bool {
	for _, token := range suspiciousTokens {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

// prefersStructured reports whether Accept asks for a structured format
// and never for HTML.
func prefersStructured(accept string) bool {
	accept = strings.ToLower(accept)
	if accept == "" || strings.Contains(accept, "text/html") {
		return false
	}
	for _, t := range structuredAcceptTypes {
		if strings.Contains(accept, t) {
			return true
		}
	}
	return false
}
