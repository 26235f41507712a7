package questions

import (
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

const bankJSON = `{
  "general": [
    {"question": "G1", "category": "General", "difficulty": "easy", "answer_key": "k"},
    {"question": "G2", "category": "General", "difficulty": "medium", "answer_key": "k"}
  ],
  "categories": {
    "Software & Internet": [
      {"question": "S1", "category": "Software & Internet", "difficulty": "medium", "answer_key": "k"},
      {"question": "S2", "category": "Software & Internet", "difficulty": "hard", "answer_key": "k"}
    ]
  },
  "positions": {
    "Python Developer": [
      {"question": "P1", "category": "Software & Internet", "difficulty": "medium", "answer_key": "k"}
    ]
  }
}`

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func seeded() BankOption {
	return WithRand(rand.New(rand.NewSource(3)))
}

func genericTexts(t *testing.T) map[string]bool {
	t.Helper()
	set := make(map[string]bool)
	for _, q := range genericQuestions() {
		set[q.Question] = true
	}
	return set
}

func TestForPosition_SetContract(t *testing.T) {
	b := Load(writeBank(t, bankJSON), slog.Default(), seeded())
	generic := genericQuestions()

	for _, position := range []string{"Python Developer", "Data Analyst", "Completely Unknown Role"} {
		t.Run(position, func(t *testing.T) {
			set := b.ForPosition(position)

			if set.Len() != SetSize {
				t.Fatalf("set size = %d, want %d", set.Len(), SetSize)
			}

			all := set.All()
			for i := 0; i < GenericLead; i++ {
				if all[i].Question != generic[i].Question {
					t.Errorf("question %d = %q, want the fixed generic opener %q",
						i, all[i].Question, generic[i].Question)
				}
			}
		})
	}
}

func TestForPosition_PositionPoolWins(t *testing.T) {
	b := Load(writeBank(t, bankJSON), slog.Default(), seeded())
	set := b.ForPosition("Python Developer")

	found := false
	for _, q := range set.All() {
		if q.Question == "P1" {
			found = true
		}
	}
	if !found {
		t.Error("the position-specific question should appear in the set")
	}
}

func TestForPosition_CategoryFallback(t *testing.T) {
	b := Load(writeBank(t, bankJSON), slog.Default(), seeded())

	// Data Analyst has no position pool but maps to Software & Internet.
	counts := map[string]int{}
	for i := 0; i < 20; i++ {
		for _, q := range b.ForPosition("Data Analyst").All() {
			counts[q.Question]++
		}
	}
	if counts["S1"] == 0 && counts["S2"] == 0 {
		t.Error("category questions should surface for a mapped position")
	}
	if counts["P1"] != 0 {
		t.Error("another position's pool must not leak in")
	}
}

func TestForPosition_UnknownPositionAllGeneric(t *testing.T) {
	b := NewEmpty(slog.Default(), seeded())
	generic := genericTexts(t)

	set := b.ForPosition("Underwater Basket Weaver")
	if set.Len() != SetSize {
		t.Fatalf("set size = %d, want %d", set.Len(), SetSize)
	}
	for i, q := range set.All() {
		if !generic[q.Question] {
			t.Errorf("question %d (%q) should come from the generic pool", i, q.Question)
		}
	}
}

func TestForPosition_RepeatFillKeepsContract(t *testing.T) {
	// Six generics alone cannot fill eight slots; the set must still have
	// exactly SetSize entries.
	b := NewEmpty(slog.Default(), seeded())
	set := b.ForPosition("General")
	if set.Len() != SetSize {
		t.Errorf("set size = %d, want %d", set.Len(), SetSize)
	}
}

func TestForPosition_DeterministicWithSeed(t *testing.T) {
	a := Load(writeBank(t, bankJSON), slog.Default(), WithRand(rand.New(rand.NewSource(11))))
	b := Load(writeBank(t, bankJSON), slog.Default(), WithRand(rand.New(rand.NewSource(11))))

	qa := a.ForPosition("Python Developer").All()
	qb := b.ForPosition("Python Developer").All()
	for i := range qa {
		if qa[i].Question != qb[i].Question {
			t.Fatalf("same seed diverged at slot %d: %q vs %q", i, qa[i].Question, qb[i].Question)
		}
	}
}

func TestLoad_MissingFileDegrades(t *testing.T) {
	b := Load(filepath.Join(t.TempDir(), "nope.json"), slog.Default(), seeded())
	if b.Pools() != 0 {
		t.Errorf("missing file should leave zero pools, got %d", b.Pools())
	}
	if set := b.ForPosition("Python Developer"); set.Len() != SetSize {
		t.Errorf("set contract must hold without a bank file, got %d", set.Len())
	}
}

func TestLoad_MalformedFileDegrades(t *testing.T) {
	b := Load(writeBank(t, "{not json"), slog.Default(), seeded())
	if b.Pools() != 0 {
		t.Errorf("malformed file should leave zero pools, got %d", b.Pools())
	}
}

func TestSetCursor(t *testing.T) {
	b := NewEmpty(slog.Default(), seeded())
	set := b.ForPosition("General")

	if set.Current() != nil {
		t.Error("no current question before the first Next")
	}

	seen := 0
	for set.HasMore() {
		q := set.Next()
		if q == nil {
			t.Fatal("Next returned nil while HasMore was true")
		}
		seen++
		if cur := set.Current(); cur == nil || cur.Question != q.Question {
			t.Errorf("Current should track the last Next")
		}
	}
	if seen != SetSize {
		t.Errorf("walked %d questions, want %d", seen, SetSize)
	}
	if set.Next() != nil {
		t.Error("Next past the end should return nil")
	}

	set.Reset()
	if !set.HasMore() {
		t.Error("Reset should rewind the cursor")
	}
	if set.Remaining() != SetSize {
		t.Errorf("remaining after reset = %d, want %d", set.Remaining(), SetSize)
	}
}
