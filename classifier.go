package geogate

// Confidence grades a classification verdict.
type Confidence string

// Confidence levels. High is reserved for conclusive signals (a known
// crawler user agent or an explicit caller declaration); medium covers
// ambiguous user agents and Accept-header-only matches.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// AIService is a coarse provider label for a matched AI crawler, used for
// observability.
type AIService string

// Known AI crawler providers.
const (
	ServiceOpenAI      AIService = "OpenAI"
	ServiceAnthropic   AIService = "Anthropic"
	ServiceGoogle      AIService = "Google"
	ServicePerplexity  AIService = "Perplexity"
	ServiceYouCom      AIService = "You.com"
	ServiceApple       AIService = "Apple"
	ServiceByteDance   AIService = "ByteDance"
	ServiceCommonCrawl AIService = "Common Crawl"
	ServiceCohere      AIService = "Cohere"
	ServiceMeta        AIService = "Meta"
	ServiceAmazon      AIService = "Amazon"
)

// RequestSignals carries the request-derived inputs to classification.
// Header and query keys are lower-case. A RequestSignals value is pure
// data; classification never touches the network.
type RequestSignals struct {
	UserAgent string
	Accept    string
	Headers   map[string]string
	Query     map[string]string
}

// DetectionResult is the outcome of classifying a single request. It is a
// pure function of the request and is never persisted.
type DetectionResult struct {
	IsAI            bool       `json:"isAI"`
	Confidence      Confidence `json:"confidence"`
	Reasons         []string   `json:"reasons"`
	SignalsObserved int        `json:"signalsObserved"`
}

// Classifier decides whether a request originates from an AI crawler or
// agent. Implementations are pure, synchronous, and safe for concurrent
// use.
type Classifier interface {
	Classify(sig RequestSignals) DetectionResult

	// ServiceOf maps a matched crawler user agent to a coarse provider
	// label. The second return is false when no known crawler matches.
	ServiceOf(sig RequestSignals) (AIService, bool)
}
