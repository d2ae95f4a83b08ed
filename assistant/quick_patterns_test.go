package assistant

import (
	"strings"
	"testing"
)

func TestQuickMatcher_IdentityAndStatus(t *testing.T) {
	m := NewQuickMatcher("Natasha", nil)

	testCases := []struct {
		input  string
		needle string
	}{
		{"what is your name", "My name is Natasha."},
		{"hey, what's your name?", "My name is Natasha."},
		{"who are you", "I am Natasha, your voice assistant"},
		{"so who're you exactly", "I am Natasha, your voice assistant"},
	}

	for _, tc := range testCases {
		got, ok := m.Match(tc.input)
		if !ok {
			t.Errorf("Match(%q): expected a quick response", tc.input)
			continue
		}
		if !strings.Contains(got, tc.needle) {
			t.Errorf("Match(%q) = %q, expected to contain %q", tc.input, got, tc.needle)
		}
	}
}

func TestQuickMatcher_ShutdownInvokesCallback(t *testing.T) {
	stopped := false
	m := NewQuickMatcher("Natasha", func() { stopped = true })

	got, ok := m.Match("please shutdown now")
	if !ok || got != "Shutting down. Goodbye!" {
		t.Fatalf("unexpected shutdown response: %q, ok=%v", got, ok)
	}
	if !stopped {
		t.Error("shutdown rule did not invoke the stop callback")
	}
}

func TestQuickMatcher_RestartNotImplemented(t *testing.T) {
	m := NewQuickMatcher("Natasha", nil)

	got, ok := m.Match("restart yourself")
	if !ok || got != "Restarting is not implemented yet." {
		t.Errorf("unexpected restart response: %q, ok=%v", got, ok)
	}
}

func TestQuickMatcher_NoMatchFallsThrough(t *testing.T) {
	m := NewQuickMatcher("Natasha", func() {
		t.Error("stop callback invoked without a shutdown match")
	})

	for _, input := range []string{
		"what time is it",
		"tell me a joke",
		"rename the file", // contains "name" but not the bounded phrase
		"",
	} {
		if got, ok := m.Match(input); ok {
			t.Errorf("Match(%q): unexpected quick response %q", input, got)
		}
	}
}
