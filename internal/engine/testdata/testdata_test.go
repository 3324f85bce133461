package testdata

import (
	"testing"

	"github.com/hollyoak/canopy/internal/model"
)

func TestLoadCorpus(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("corpus is empty")
	}
	t.Logf("Total entries: %d", len(entries))

	// Every entry must have all required fields.
	for i, e := range entries {
		if e.Text == "" {
			t.Errorf("entry[%d] has empty text", i)
		}
		if e.ExpectedAttitude == "" {
			t.Errorf("entry[%d] has empty expected_attitude", i)
		}
		if e.ExpectedSubject == "" {
			t.Errorf("entry[%d] has empty expected_subject", i)
		}
	}
}

func TestCorpusLabelValues(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}

	attitudes := map[model.Attitude]bool{}
	for _, a := range model.Attitudes() {
		attitudes[a] = true
	}
	subjects := map[model.Subject]bool{}
	for _, s := range model.Subjects() {
		subjects[s] = true
	}

	for i, e := range entries {
		if !attitudes[model.Attitude(e.ExpectedAttitude)] {
			t.Errorf("entry[%d] (%s) has unknown attitude %q", i, e.Description, e.ExpectedAttitude)
		}
		if !subjects[model.Subject(e.ExpectedSubject)] {
			t.Errorf("entry[%d] (%s) has unknown subject %q", i, e.Description, e.ExpectedSubject)
		}
	}
}

func TestCorpusCoverage(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}

	seen := map[model.Attitude]int{}
	for _, e := range entries {
		seen[model.Attitude(e.ExpectedAttitude)]++
	}

	// Every classifiable attitude needs at least two entries.
	for _, a := range model.Attitudes() {
		if seen[a] < 2 {
			t.Errorf("attitude %q has %d corpus entries (want >= 2)", a, seen[a])
		}
	}
}
