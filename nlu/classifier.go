package nlu

// RuleClassifier classifies utterances against the compiled registry.
// Confidence for an intent is the fraction of its registered patterns
// that match the utterance, so a 1-pattern intent reaches 1.0 on a
// single keyword. Downstream dispatch relies on this scoring, so it is
// deliberately not normalized.
type RuleClassifier struct {
	registry *Registry
}

// NewRuleClassifier creates a classifier over a compiled registry.
func NewRuleClassifier(registry *Registry) *RuleClassifier {
	return &RuleClassifier{registry: registry}
}

// Classify returns the best-matching intent for text. Intents are
// scored in registration order and only a strictly higher confidence
// replaces the current best, so ties break toward the first-registered
// intent regardless of map iteration order. Empty or unmatched input
// yields {IntentUnknown, 0}.
func (c *RuleClassifier) Classify(text string) Classification {
	best := Classification{Intent: IntentUnknown, Confidence: 0}
	if text == "" {
		return best
	}

	for _, ci := range c.registry.intents {
		if len(ci.patterns) == 0 {
			continue
		}
		matched := 0
		for _, re := range ci.patterns {
			if re.MatchString(text) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		confidence := float64(matched) / float64(len(ci.patterns))
		if confidence > best.Confidence {
			best = Classification{Intent: ci.tag, Confidence: confidence}
		}
	}

	return best
}

var _ Classifier = (*RuleClassifier)(nil)
