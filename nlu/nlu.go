// Package nlu implements rule-based natural language understanding:
// intent classification with confidence scoring and typed entity
// extraction, both driven by a compiled pattern registry.
package nlu

// IntentUnknown is returned when no intent pattern matches the input.
const IntentUnknown = "unknown"

// Classification is the result of classifying a single utterance.
type Classification struct {
	// Intent is the tag of the best-matching intent, or IntentUnknown.
	Intent string `json:"intent"`
	// Confidence is the fraction of the intent's registered patterns
	// that matched the utterance. Always within [0, 1].
	Confidence float64 `json:"confidence"`
}

// Occurrence is a single typed span extracted from an utterance.
// Value is a string, or an int when the captured text is all digits.
type Occurrence struct {
	Value any `json:"value"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Classifier scores registered intents against an utterance.
type Classifier interface {
	Classify(text string) Classification
}

// Extractor scans an utterance for typed entity occurrences.
type Extractor interface {
	Extract(text string) map[string][]Occurrence
}
