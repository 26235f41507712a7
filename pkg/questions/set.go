package questions

import "sync"

// Set is an ordered question sequence with a cursor, one per session.
type Set struct {
	mu        sync.Mutex
	questions []Question
	index     int
}

// Next returns the next question and advances the cursor, or nil when the
// set is exhausted.
func (s *Set) Next() *Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.questions) {
		return nil
	}
	q := s.questions[s.index]
	s.index++
	return &q
}

// Current returns the most recently returned question, nil before the
// first Next.
func (s *Set) Current() *Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == 0 || s.index > len(s.questions) {
		return nil
	}
	q := s.questions[s.index-1]
	return &q
}

// Reset rewinds the cursor to the beginning.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}

// HasMore reports whether Next would return a question.
func (s *Set) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index < len(s.questions)
}

// Remaining returns the number of questions not yet returned.
func (s *Set) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions) - s.index
}

// Len returns the total number of questions in the set.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// All returns a copy of the full question list.
func (s *Set) All() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}
