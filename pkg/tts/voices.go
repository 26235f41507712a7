package tts

import "strings"

// ElevenLabsVoices maps short preset names to ElevenLabs voice IDs so the
// config file can say "charlotte" instead of a 20-character ID.
var ElevenLabsVoices = map[string]string{
	"charlotte": "XB0fDUnXU5powFXDhCwa", // British female, warm
	"aria":      "9BWtsMINqrJLrRacOk9x", // American female, expressive
	"sarah":     "EXAVITQu4vr4xnSDxMaL", // American female, soft
	"lily":      "pFZP5JQG7iQjIQuC4Bku", // British female, warm
	"rachel":    "21m00Tcm4TlvDq8ikWAM", // American female, calm
	"josh":      "TxGEqnHWrfWFTfGW9XjX", // American male, deep
	"adam":      "pNInz6obpgDQGcFmaJgB", // American male, deep
	"sam":       "yoZ06aMxZJJ28mfd3POQ", // American male, raspy
}

// DefaultElevenLabsVoice is used when no voice is configured. A warm voice
// keeps the coaching prompts from sounding like alerts.
const DefaultElevenLabsVoice = "charlotte"

// ResolveElevenLabsVoice maps a preset name to its voice ID. Names are
// matched case-insensitively; anything unrecognized is passed through as a
// raw voice ID.
func ResolveElevenLabsVoice(name string) string {
	if id, ok := ElevenLabsVoices[strings.ToLower(name)]; ok {
		return id
	}
	return name
}

// IsElevenLabsPreset reports whether name is a known preset.
func IsElevenLabsPreset(name string) bool {
	_, ok := ElevenLabsVoices[strings.ToLower(name)]
	return ok
}
