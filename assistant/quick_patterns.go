package assistant

import (
	"fmt"
	"math/rand"
	"regexp"
)

// quickRule is one short-circuit rule: a pre-compiled pattern and the
// action producing its response. Rules are checked in order before the
// classifier runs; the first match wins and bypasses dispatch entirely.
type quickRule struct {
	pattern *regexp.Regexp
	action  func() string
}

// QuickMatcher answers fixed conversational phrases (identity, status,
// shutdown) in constant time regardless of registry size.
type QuickMatcher struct {
	rules []quickRule
}

var statusResponses = []string{
	"I'm doing well, thank you! How can I help you?",
	"I'm functioning properly, thanks for asking. How can I assist you?",
	"All systems operational! What can I do for you today?",
	"I'm great! Ready to help with whatever you need.",
}

// NewQuickMatcher builds the ordered quick-pattern list. requestStop is
// invoked by the shutdown rule before its response is returned.
func NewQuickMatcher(name string, requestStop func()) *QuickMatcher {
	return &QuickMatcher{
		rules: []quickRule{
			{
				pattern: regexp.MustCompile(`(?i)\b(what is|what'?s) your name\b`),
				action: func() string {
					return fmt.Sprintf("My name is %s.", name)
				},
			},
			{
				pattern: regexp.MustCompile(`(?i)\b(who are|who'?re) you\b`),
				action: func() string {
					return fmt.Sprintf("I am %s, your voice assistant. I'm here to help you with various tasks.", name)
				},
			},
			{
				pattern: regexp.MustCompile(`(?i)\b(how are|how'?re) you\b`),
				action: func() string {
					return statusResponses[rand.Intn(len(statusResponses))]
				},
			},
			{
				pattern: regexp.MustCompile(`(?i)\bshutdown\b`),
				action: func() string {
					if requestStop != nil {
						requestStop()
					}
					return "Shutting down. Goodbye!"
				},
			},
			{
				pattern: regexp.MustCompile(`(?i)\brestart\b`),
				action: func() string {
					return "Restarting is not implemented yet."
				},
			},
		},
	}
}

// Match returns the response of the first matching rule.
func (m *QuickMatcher) Match(text string) (string, bool) {
	for _, rule := range m.rules {
		if rule.pattern.MatchString(text) {
			return rule.action(), true
		}
	}
	return "", false
}
