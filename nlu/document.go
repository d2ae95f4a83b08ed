package nlu

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// IntentDefinition declares one intent: a unique tag, the surface
// patterns that trigger it, and optional canned responses.
// Patterns are matched as case-insensitive word-bounded substrings.
type IntentDefinition struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses,omitempty"`
}

// EntityPattern is one sub-pattern of an entity definition. Regex is a
// case-insensitive regular expression. When Value is set, every match
// yields that fixed value; otherwise the capture group Group is used
// (group 0 is the whole match).
type EntityPattern struct {
	Regex string `json:"regex"`
	Value string `json:"value,omitempty"`
	Group int    `json:"group,omitempty"`
}

// EntityDefinition declares one entity type and its sub-patterns.
type EntityDefinition struct {
	Tag      string          `json:"tag"`
	Patterns []EntityPattern `json:"patterns"`
}

// Document is the persisted form of all intent and entity definitions.
type Document struct {
	Intents  []IntentDefinition `json:"intents"`
	Entities []EntityDefinition `json:"entities"`
}

// LoadDocument reads a pattern document from path. A missing or corrupt
// file is not fatal: the built-in defaults are returned and written back
// to path so the next load round-trips.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		doc := &Document{}
		if jsonErr := json.Unmarshal(data, doc); jsonErr == nil {
			return doc, nil
		} else {
			slog.Warn("discarding corrupt pattern document, regenerating defaults",
				"path", path, "error", jsonErr)
		}
	} else if !os.IsNotExist(err) {
		slog.Warn("failed to read pattern document, regenerating defaults",
			"path", path, "error", err)
	}

	doc := DefaultDocument()
	if err := SaveDocument(path, doc); err != nil {
		slog.Warn("failed to persist default pattern document", "path", path, "error", err)
	}
	return doc, nil
}

// SaveDocument writes the pattern document to path, creating parent
// directories as needed.
func SaveDocument(path string, doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal pattern document")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write pattern document %s", path)
	}
	return nil
}
