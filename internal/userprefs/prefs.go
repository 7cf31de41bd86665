// Package userprefs persists per-conversation user preferences: the
// username, the initialization prompt that customizes the assistant's
// behavior, and the voice/language preference for spoken replies.
package userprefs

import (
	"errors"
)

// Voice options for spoken replies.
const (
	VoiceMale   = "male"
	VoiceFemale = "female"
)

var (
	// ErrUnsupportedVoice is returned for voice values other than male/female.
	ErrUnsupportedVoice = errors.New("unsupported voice")

	// ErrUnsupportedLanguage is returned when a language cannot be matched
	// against the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrBadChatID is returned for chat identifiers unusable as file names.
	ErrBadChatID = errors.New("bad chat id")
)

// Preferences holds everything a user can customize about their assistant.
type Preferences struct {
	Username             string `json:"username,omitempty"`
	InitializationPrompt string `json:"initialization_prompt,omitempty"`
	Voice                string `json:"voice,omitempty"`    // "male" or "female"
	Language             string `json:"language,omitempty"` // BCP 47 tag, e.g. "en", "it"
}
