package nlu

import "strconv"

// RegexExtractor extracts typed entity occurrences from utterances
// using the compiled registry. Extraction is independent of intent
// classification and runs even for unknown intents.
type RegexExtractor struct {
	registry *Registry
}

// NewRegexExtractor creates an extractor over a compiled registry.
func NewRegexExtractor(registry *Registry) *RegexExtractor {
	return &RegexExtractor{registry: registry}
}

// Extract returns every entity occurrence in text, keyed by entity tag.
// Each sub-pattern contributes all of its non-overlapping matches in
// document order; occurrences are not deduplicated. A captured value
// consisting solely of digits is parsed to an int, otherwise the raw
// string is kept.
func (e *RegexExtractor) Extract(text string) map[string][]Occurrence {
	occurrences := make(map[string][]Occurrence, len(e.registry.entities))
	if text == "" {
		return occurrences
	}

	for _, ce := range e.registry.entities {
		var found []Occurrence
		for _, p := range ce.patterns {
			for _, loc := range p.regex.FindAllStringSubmatchIndex(text, -1) {
				start, end := loc[2*p.group], loc[2*p.group+1]
				if start < 0 || end < 0 {
					continue
				}
				var value any
				if p.value != "" {
					value = p.value
				} else {
					value = parseValue(text[start:end])
				}
				found = append(found, Occurrence{
					Value: value,
					Start: start,
					End:   end,
				})
			}
		}
		if len(found) > 0 {
			occurrences[ce.tag] = found
		}
	}

	return occurrences
}

// parseValue converts an all-digit capture to an int; anything else is
// passed through as a string, never an error.
func parseValue(raw string) any {
	if raw == "" {
		return raw
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return raw
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	return n
}

var _ Extractor = (*RegexExtractor)(nil)
