// Package testdata holds a labeled comment corpus for classification
// validation. Entries are hand-labeled reddit-style comments covering
// every attitude and a spread of subjects.
package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed corpus.json
var corpusJSON []byte

// CorpusEntry is a labeled comment for classification validation.
type CorpusEntry struct {
	Text             string `json:"text"`
	ExpectedAttitude string `json:"expected_attitude"`
	ExpectedSubject  string `json:"expected_subject"`
	Description      string `json:"description"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}
