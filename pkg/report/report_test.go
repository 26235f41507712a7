package report

import (
	"math"
	"strings"
	"testing"

	"github.com/coachcam/go-coach/pkg/score"
)

func rec(composite, face, gaze, posture, gesture float64) score.Record {
	return score.Record{
		Score:   composite,
		Face:    face,
		Gaze:    gaze,
		Posture: posture,
		Gesture: gesture,
	}
}

func goodRec() score.Record { return rec(95, 100, 100, 100, 100) }
func midRec() score.Record  { return rec(70, 100, 70, 75, 100) }
func lowRec() score.Record  { return rec(30, 0, 10, 50, 70) }

func TestAnalyze_EmptyHistory(t *testing.T) {
	r := Analyze(nil, 87.5)

	if !r.InsufficientData {
		t.Error("empty history must flag insufficient data")
	}
	if r.FinalScore != 87.5 {
		t.Errorf("final score should fall back to the live value, got %v", r.FinalScore)
	}
	if len(r.Recommendations) == 0 {
		t.Error("the fallback report should still offer generic tips")
	}
	if r.TotalRecords != 0 {
		t.Errorf("total records = %d, want 0", r.TotalRecords)
	}
}

func TestAnalyze_BucketsAreExclusive(t *testing.T) {
	history := []score.Record{
		goodRec(),                   // high
		rec(85, 100, 100, 100, 100), // boundary: exactly 85 is high
		midRec(),                    // medium
		rec(60, 100, 70, 75, 100),   // boundary: exactly 60 is medium
		lowRec(),                    // low
		rec(59.9, 0, 10, 50, 70),    // low
	}

	r := Analyze(history, 0)

	if r.Buckets.High != 2 || r.Buckets.Medium != 2 || r.Buckets.Low != 2 {
		t.Errorf("buckets = %d/%d/%d, want 2/2/2",
			r.Buckets.High, r.Buckets.Medium, r.Buckets.Low)
	}
	if got := r.Buckets.High + r.Buckets.Medium + r.Buckets.Low; got != len(history) {
		t.Errorf("buckets must partition the history: %d vs %d", got, len(history))
	}
	if r.Buckets.FaceMissing != 2 {
		t.Errorf("face missing overlay = %d, want 2", r.Buckets.FaceMissing)
	}
}

func TestAnalyze_FinalScoreIsHistoryMean(t *testing.T) {
	history := []score.Record{goodRec(), lowRec()}
	r := Analyze(history, 99)

	want := (95.0 + 30.0) / 2
	if math.Abs(r.FinalScore-want) > 1e-9 {
		t.Errorf("final score = %v, want history mean %v (the live value must not leak in)",
			r.FinalScore, want)
	}
}

func TestAnalyze_DimensionRecommendations(t *testing.T) {
	// Averages: face 33.3, gaze 40, posture 66.7, gesture 80. Face, gaze,
	// and posture cross their thresholds; gesture sits exactly on its
	// threshold and does not.
	history := []score.Record{
		rec(50, 0, 10, 50, 70),
		rec(50, 0, 10, 50, 70),
		rec(50, 100, 100, 100, 100),
	}
	r := Analyze(history, 0)

	joined := strings.Join(r.Recommendations, "\n")
	if !strings.Contains(joined, "Stay in frame") {
		t.Error("expected face advice")
	}
	if !strings.Contains(joined, "eye contact") {
		t.Error("expected gaze advice")
	}
	if !strings.Contains(joined, "posture") {
		t.Error("expected posture advice")
	}
	if strings.Contains(joined, "self-touch") {
		t.Error("gesture average 85 should not earn advice")
	}
}

func TestAnalyze_PraiseAndCorrection(t *testing.T) {
	t.Run("praise above 70 percent high", func(t *testing.T) {
		history := []score.Record{goodRec(), goodRec(), goodRec(), midRec()}
		r := Analyze(history, 0)
		if !strings.Contains(strings.Join(r.Recommendations, "\n"), "Excellent focus") {
			t.Error("75% high share should earn praise")
		}
	})

	t.Run("no praise at exactly 70 percent", func(t *testing.T) {
		history := []score.Record{
			goodRec(), goodRec(), goodRec(), goodRec(), goodRec(),
			goodRec(), goodRec(), midRec(), midRec(), midRec(),
		}
		r := Analyze(history, 0)
		if strings.Contains(strings.Join(r.Recommendations, "\n"), "Excellent focus") {
			t.Error("the praise trigger is strictly above 70%")
		}
	})

	t.Run("correction above 30 percent low", func(t *testing.T) {
		history := []score.Record{lowRec(), lowRec(), goodRec(), goodRec(), goodRec()}
		r := Analyze(history, 0)
		if !strings.Contains(strings.Join(r.Recommendations, "\n"), "Attention dropped") {
			t.Error("40% low share should earn the correction sentence")
		}
	})
}

func TestAnalyze_Summary(t *testing.T) {
	history := []score.Record{goodRec(), midRec(), lowRec(), lowRec()}
	r := Analyze(history, 0)

	if !strings.Contains(r.Summary, "25%") {
		t.Errorf("summary should mention the 25%% high share: %q", r.Summary)
	}
	if !strings.Contains(r.Summary, "50%") {
		t.Errorf("summary should mention the 50%% low share: %q", r.Summary)
	}
}

func TestPct(t *testing.T) {
	if got := pct(1, 4); got != 25 {
		t.Errorf("pct(1,4) = %v, want 25", got)
	}
	if got := pct(3, 0); got != 0 {
		t.Errorf("pct with zero total = %v, want 0", got)
	}
}
