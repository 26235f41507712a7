package feedback

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coachcam/go-coach/pkg/detect"
)

// Pools holds the per-category phrase pools. Each helper picks uniformly at
// random from its pool so repeated reminders do not sound canned.
type Pools struct {
	Gaze          []string                        `yaml:"gaze"`
	Pose          map[detect.PoseStatus]string    `yaml:"pose"`
	Gesture       map[detect.GestureStatus]string `yaml:"gesture"`
	Encouragement []string                        `yaml:"encouragement"`
	QuestionDone  []string                        `yaml:"question_done"`
	FaceMissing   string                          `yaml:"face_missing"`
	Welcome       string                          `yaml:"welcome"`
	Goodbye       string                          `yaml:"goodbye"`
	VoiceTest     string                          `yaml:"voice_test"`
}

// DefaultPools returns the built-in phrase pools.
func DefaultPools() Pools {
	return Pools{
		Gaze: []string{
			"Keep eye contact, look at the camera",
			"Look into the camera to show confidence",
			"Hold eye contact, it matters",
			"Face the camera and stay engaged with your interviewer",
		},
		Pose: map[detect.PoseStatus]string{
			detect.PoseHeadUp:   "Keep your head level, avoid tilting it up",
			detect.PoseHeadDown: "Lift your chin and sit up straight",
			detect.PoseTilted:   "Keep your head straight, avoid tilting",
			detect.PoseTurned:   "Stay facing the camera to show focus",
		},
		Gesture: map[detect.GestureStatus]string{
			detect.GestureTouchFace: "Avoid touching your face, keep a professional look",
			detect.GestureTouchChin: "Avoid touching your chin, stay composed",
			detect.GestureTouchHair: "Avoid touching your hair, keep a professional look",
			detect.GestureRestChin:  "Avoid resting your chin on your hand, stay attentive",
		},
		Encouragement: []string{
			"Well done, keep it up",
			"You are doing great, stay focused",
			"Nice, your presence keeps improving",
			"Keep going, you are doing well",
		},
		QuestionDone: []string{
			"Time is up for this question, let's review your delivery",
			"That's five minutes, well done staying with it",
			"Answer time is over, take a breath before the next question",
		},
		FaceMissing: "Please adjust your position so your face is in view",
		Welcome:     "Interview practice started, keep a professional posture",
		Goodbye:     "Interview practice finished, thank you",
		VoiceTest:   "This is a voice test, the system is working",
	}
}

// LoadPools reads phrase pools from a YAML file, filling any missing
// category from the defaults.
func LoadPools(path string) (Pools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pools{}, fmt.Errorf("feedback: read phrase file: %w", err)
	}

	pools := DefaultPools()
	if err := yaml.Unmarshal(data, &pools); err != nil {
		return Pools{}, fmt.Errorf("feedback: parse phrase file: %w", err)
	}
	return pools.fill(), nil
}

// fill backstops empty categories with defaults so a sparse phrase file
// cannot silence a whole category.
func (p Pools) fill() Pools {
	def := DefaultPools()
	if len(p.Gaze) == 0 {
		p.Gaze = def.Gaze
	}
	if len(p.Pose) == 0 {
		p.Pose = def.Pose
	}
	if len(p.Gesture) == 0 {
		p.Gesture = def.Gesture
	}
	if len(p.Encouragement) == 0 {
		p.Encouragement = def.Encouragement
	}
	if len(p.QuestionDone) == 0 {
		p.QuestionDone = def.QuestionDone
	}
	if p.FaceMissing == "" {
		p.FaceMissing = def.FaceMissing
	}
	if p.Welcome == "" {
		p.Welcome = def.Welcome
	}
	if p.Goodbye == "" {
		p.Goodbye = def.Goodbye
	}
	if p.VoiceTest == "" {
		p.VoiceTest = def.VoiceTest
	}
	return p
}
