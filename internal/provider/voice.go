package provider

import "strings"

type Voice string

const (
	VoiceAlloy   Voice = "alloy"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceShimmer Voice = "shimmer"
)

var Voices = []Voice{VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer}

func (v Voice) Valid() bool {
	for _, known := range Voices {
		if v == known {
			return true
		}
	}
	return false
}

// ParseVoice maps a free-form selection onto the enumerated set, falling back when unknown.
func ParseVoice(s string, fallback Voice) Voice {
	v := Voice(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v
	}
	if fallback.Valid() {
		return fallback
	}
	return VoiceAlloy
}
