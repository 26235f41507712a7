// Package questions loads the interview question bank and assembles the
// per-position question sets.
//
// A missing or malformed bank file is a deployment problem, so it is logged
// loudly at load time; at runtime an unknown position (or an empty bank)
// always degrades to the built-in generic questions, never to an error.
package questions

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"
)

// Difficulty grades a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one interview question with its grading hints.
type Question struct {
	Question   string     `json:"question"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	AnswerKey  string     `json:"answer_key"`
}

// SetSize is the number of questions per interview session. The first
// GenericLead of them are always drawn from the fixed generic pool.
const (
	SetSize     = 8
	GenericLead = 2
)

// bankFile mirrors the on-disk JSON layout.
type bankFile struct {
	General    []Question            `json:"general"`
	Categories map[string][]Question `json:"categories"`
	Positions  map[string][]Question `json:"positions"`
}

// Bank holds the loaded question pools.
type Bank struct {
	pools  map[string][]Question
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// BankOption configures a Bank.
type BankOption func(*Bank)

// WithRand injects the RNG used for shuffling, for determinism in tests.
func WithRand(rng *rand.Rand) BankOption {
	return func(b *Bank) { b.rng = rng }
}

// Load reads the question bank from path. A missing or unparsable file is
// logged as an error and produces an empty bank; ForPosition still works on
// generic questions alone.
func Load(path string, logger *slog.Logger, opts ...BankOption) *Bank {
	b := &Bank{
		pools:  make(map[string][]Question),
		logger: logger.With("component", "questions.bank"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		b.logger.Error("question bank file not found, using generic questions only",
			"path", path, "error", err)
		return b
	}

	var f bankFile
	if err := json.Unmarshal(data, &f); err != nil {
		b.logger.Error("question bank file failed to parse, using generic questions only",
			"path", path, "error", err)
		return b
	}

	if len(f.General) > 0 {
		b.pools[generalPool] = f.General
	}
	for name, qs := range f.Categories {
		b.pools[name] = qs
	}
	for name, qs := range f.Positions {
		b.pools[name] = qs
	}

	b.logger.Info("question bank loaded", "pools", len(b.pools))
	return b
}

// NewEmpty returns a bank with no file-backed pools, for tests and for
// running without a data directory.
func NewEmpty(logger *slog.Logger, opts ...BankOption) *Bank {
	b := &Bank{
		pools:  make(map[string][]Question),
		logger: logger.With("component", "questions.bank"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ForPosition assembles the question set for a position: always exactly
// SetSize questions, the first GenericLead from the fixed generic pool, the
// remainder shuffled from position-specific (or career-category) questions
// topped up with the rest of the generics. Unknown positions get a fully
// generic set.
func (b *Bank) ForPosition(position string) *Set {
	generic := genericQuestions()

	var career []Question
	if qs, ok := b.pools[position]; ok {
		career = qs
	} else if cat, ok := careerCategory[position]; ok {
		career = b.pools[cat]
	}

	final := make([]Question, 0, SetSize)
	final = append(final, generic[:GenericLead]...)

	remaining := make([]Question, 0, len(generic)-GenericLead+len(career))
	remaining = append(remaining, generic[GenericLead:]...)
	remaining = append(remaining, career...)
	remaining = append(remaining, b.pools[generalPool]...)

	b.mu.Lock()
	b.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	b.mu.Unlock()

	if len(remaining) > SetSize-GenericLead {
		remaining = remaining[:SetSize-GenericLead]
	}
	final = append(final, remaining...)

	// Repeat-fill if the pools were too small; the set size is a contract.
	for len(final) < SetSize {
		final = append(final, final[len(final)%GenericLead])
	}

	return &Set{questions: final}
}

// Pools returns the number of loaded pools, generic excluded.
func (b *Bank) Pools() int {
	n := len(b.pools)
	if _, ok := b.pools[generalPool]; ok {
		n--
	}
	return n
}

const generalPool = "__general__"
