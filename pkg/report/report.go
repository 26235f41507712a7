// Package report reduces a finished attention history into distributional
// statistics and templated recommendations.
package report

import (
	"fmt"

	"github.com/coachcam/go-coach/pkg/score"
)

// Score bucket boundaries.
const (
	HighThreshold = 85.0 // high: score >= 85
	LowThreshold  = 60.0 // low: score < 60; medium is the band between
)

// Per-dimension advisory thresholds: an average below the threshold earns
// the dimension's recommendation sentence.
const (
	FaceAdviceBelow    = 80.0
	GazeAdviceBelow    = 70.0
	PostureAdviceBelow = 70.0
	GestureAdviceBelow = 80.0
)

// Bucket share triggers for the overall sentences.
const (
	HighShareForPraise    = 0.70
	LowShareForCorrection = 0.30
)

// Buckets holds the score distribution. Every record lands in exactly one
// of high/medium/low; FaceMissing overlays the same records and counts
// frames where the face sub-score was zero.
type Buckets struct {
	High        int     `json:"high"`
	Medium      int     `json:"medium"`
	Low         int     `json:"low"`
	FaceMissing int     `json:"face_missing"`
	HighPct     float64 `json:"high_pct"`
	MediumPct   float64 `json:"medium_pct"`
	LowPct      float64 `json:"low_pct"`
}

// Averages holds the arithmetic mean of each un-smoothed sub-score.
type Averages struct {
	Face    float64 `json:"face"`
	Gaze    float64 `json:"gaze"`
	Posture float64 `json:"posture"`
	Gesture float64 `json:"gesture"`
}

// Report is the post-session analysis output.
type Report struct {
	TotalRecords     int      `json:"total_records"`
	Buckets          Buckets  `json:"buckets"`
	Averages         Averages `json:"averages"`
	FinalScore       float64  `json:"final_attention_score"`
	Recommendations  []string `json:"recommendations"`
	Summary          string   `json:"summary"`
	InsufficientData bool     `json:"insufficient_data"`
}

// Fallback tips used when no history exists.
var genericTips = []string{
	"Keep your face visible to the camera for the whole interview",
	"Hold steady eye contact with the camera",
	"Sit upright with your head level and facing forward",
	"Keep your hands away from your face while speaking",
}

// Analyze reduces the history into a Report. current is the live smoothed
// score and is only used as the final score when the history is empty.
//
// The final score is deliberately the mean of all historical composites,
// not the live smoothed value: the report documents the whole session, not
// the last instant.
func Analyze(history []score.Record, current float64) Report {
	if len(history) == 0 {
		return Report{
			FinalScore:       current,
			Recommendations:  append([]string(nil), genericTips...),
			Summary:          "Not enough data recorded to analyze this session.",
			InsufficientData: true,
		}
	}

	r := Report{TotalRecords: len(history)}

	var sumScore, sumFace, sumGaze, sumPosture, sumGesture float64
	for _, rec := range history {
		switch {
		case rec.Score >= HighThreshold:
			r.Buckets.High++
		case rec.Score >= LowThreshold:
			r.Buckets.Medium++
		default:
			r.Buckets.Low++
		}
		if rec.Face == 0 {
			r.Buckets.FaceMissing++
		}
		sumScore += rec.Score
		sumFace += rec.Face
		sumGaze += rec.Gaze
		sumPosture += rec.Posture
		sumGesture += rec.Gesture
	}

	n := float64(len(history))
	r.Buckets.HighPct = pct(r.Buckets.High, len(history))
	r.Buckets.MediumPct = pct(r.Buckets.Medium, len(history))
	r.Buckets.LowPct = pct(r.Buckets.Low, len(history))

	r.Averages = Averages{
		Face:    sumFace / n,
		Gaze:    sumGaze / n,
		Posture: sumPosture / n,
		Gesture: sumGesture / n,
	}
	r.FinalScore = sumScore / n

	r.Recommendations = recommendations(r.Averages, r.Buckets, len(history))
	r.Summary = fmt.Sprintf(
		"Session average attention %.1f. You were highly focused %.0f%% of the time, moderately focused %.0f%%, and unfocused %.0f%%.",
		r.FinalScore, r.Buckets.HighPct, r.Buckets.MediumPct, r.Buckets.LowPct,
	)

	return r
}

func recommendations(avg Averages, b Buckets, total int) []string {
	var recs []string

	if avg.Face < FaceAdviceBelow {
		recs = append(recs, "Stay in frame: the camera lost your face too often, adjust your seat or camera angle")
	}
	if avg.Gaze < GazeAdviceBelow {
		recs = append(recs, "Work on eye contact: look into the camera rather than at the screen or away")
	}
	if avg.Posture < PostureAdviceBelow {
		recs = append(recs, "Watch your posture: keep your head level and face the camera directly")
	}
	if avg.Gesture < GestureAdviceBelow {
		recs = append(recs, "Reduce self-touch gestures: keep your hands away from your face and hair")
	}

	if float64(b.High)/float64(total) > HighShareForPraise {
		recs = append(recs, "Excellent focus overall, keep this level of engagement in real interviews")
	}
	if float64(b.Low)/float64(total) > LowShareForCorrection {
		recs = append(recs, "Attention dropped for a large part of the session, practice staying engaged for longer stretches")
	}

	return recs
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
