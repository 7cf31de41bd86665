package userprefs

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// supportedTags lists the languages the assistant can speak, in preference
// order. English is the fallback for ambiguous matches.
var supportedTags = []language.Tag{
	language.English,
	language.Italian,
}

var languageMatcher = language.NewMatcher(supportedTags)

// languageNames maps the spoken-name spellings the bot offers in its
// keyboards to BCP 47 tags.
var languageNames = map[string]string{
	"english": "en",
	"italian": "it",
}

// NormalizeLanguage maps user input ("english", "it", "it-IT", ...) to the
// canonical tag of the closest supported language.
func NormalizeLanguage(input string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrUnsupportedLanguage)
	}

	if tag, ok := languageNames[trimmed]; ok {
		trimmed = tag
	}

	parsed, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, input)
	}

	_, index, confidence := languageMatcher.Match(parsed)
	if confidence == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, input)
	}

	return supportedTags[index].String(), nil
}
