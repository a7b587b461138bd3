package model

import "strings"

// Intent classifies what kind of generation a user prompt is asking for.
type Intent string

const (
	IntentText  Intent = "TEXT"
	IntentImage Intent = "IMAGE"
	IntentVideo Intent = "VIDEO"
	IntentAudio Intent = "AUDIO"
)

// ParseIntent normalizes a model response into a valid Intent. Anything
// unrecognized falls back to TEXT so the chat flow always proceeds.
func ParseIntent(s string) Intent {
	switch Intent(strings.ToUpper(strings.TrimSpace(s))) {
	case IntentImage:
		return IntentImage
	case IntentVideo:
		return IntentVideo
	case IntentAudio:
		return IntentAudio
	default:
		return IntentText
	}
}
