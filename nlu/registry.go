package nlu

import (
	"math/rand"
	"regexp"

	"github.com/pkg/errors"
)

// compiledIntent is the runtime form of an IntentDefinition. Patterns
// are compiled once at startup and never mutated afterwards, so the
// slice is safe for concurrent reads.
type compiledIntent struct {
	tag       string
	patterns  []*regexp.Regexp
	responses []string
}

// compiledEntity is the runtime form of an EntityDefinition.
type compiledEntity struct {
	tag      string
	patterns []compiledEntityPattern
}

type compiledEntityPattern struct {
	regex *regexp.Regexp
	value string
	group int
}

// Registry holds the compiled intent and entity definitions. It is
// immutable after construction; the Classifier and Extractor share it
// read-only, so no locking is needed.
type Registry struct {
	intents  []compiledIntent
	entities []compiledEntity
	byIntent map[string]*compiledIntent
}

// NewRegistry compiles a pattern document into a registry. Intent
// patterns are matched as case-insensitive word-bounded substrings;
// entity patterns are arbitrary case-insensitive regular expressions.
// An entity sub-pattern referencing a capture group its regex does not
// have is rejected here rather than silently skipped per match.
func NewRegistry(doc *Document) (*Registry, error) {
	r := &Registry{
		intents:  make([]compiledIntent, 0, len(doc.Intents)),
		byIntent: make(map[string]*compiledIntent, len(doc.Intents)),
	}

	for _, def := range doc.Intents {
		ci := compiledIntent{
			tag:       def.Tag,
			patterns:  make([]*regexp.Regexp, 0, len(def.Patterns)),
			responses: def.Responses,
		}
		for _, p := range def.Patterns {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(p) + `\b`)
			if err != nil {
				return nil, errors.Wrapf(err, "intent %q: invalid pattern %q", def.Tag, p)
			}
			ci.patterns = append(ci.patterns, re)
		}
		r.intents = append(r.intents, ci)
		r.byIntent[ci.tag] = &r.intents[len(r.intents)-1]
	}

	for _, def := range doc.Entities {
		ce := compiledEntity{tag: def.Tag}
		for _, p := range def.Patterns {
			re, err := regexp.Compile(`(?i)` + p.Regex)
			if err != nil {
				return nil, errors.Wrapf(err, "entity %q: invalid regex %q", def.Tag, p.Regex)
			}
			if p.Group < 0 || p.Group > re.NumSubexp() {
				return nil, errors.Errorf("entity %q: pattern %q has no capture group %d",
					def.Tag, p.Regex, p.Group)
			}
			ce.patterns = append(ce.patterns, compiledEntityPattern{
				regex: re,
				value: p.Value,
				group: p.Group,
			})
		}
		r.entities = append(r.entities, ce)
	}

	return r, nil
}

// IntentTags returns the intent tags in registration order.
func (r *Registry) IntentTags() []string {
	tags := make([]string, 0, len(r.intents))
	for _, ci := range r.intents {
		tags = append(tags, ci.tag)
	}
	return tags
}

// EntityTags returns the entity tags in registration order.
func (r *Registry) EntityTags() []string {
	tags := make([]string, 0, len(r.entities))
	for _, ce := range r.entities {
		tags = append(tags, ce.tag)
	}
	return tags
}

// PatternCount returns the number of compiled patterns for an intent
// tag, or 0 if the tag is not registered.
func (r *Registry) PatternCount(tag string) int {
	if ci, ok := r.byIntent[tag]; ok {
		return len(ci.patterns)
	}
	return 0
}

// EntityPatternCount returns the number of compiled sub-patterns for an
// entity tag, or 0 if the tag is not registered.
func (r *Registry) EntityPatternCount(tag string) int {
	for _, ce := range r.entities {
		if ce.tag == tag {
			return len(ce.patterns)
		}
	}
	return 0
}

// ResponseFor returns a random canned response for the intent tag.
// Returns "" when the intent has no canned responses.
func (r *Registry) ResponseFor(tag string) string {
	ci, ok := r.byIntent[tag]
	if !ok || len(ci.responses) == 0 {
		return ""
	}
	return ci.responses[rand.Intn(len(ci.responses))]
}
