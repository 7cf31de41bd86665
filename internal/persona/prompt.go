package persona

import (
	"fmt"
	"strings"
	"time"
)

// PromptContext carries the per-user pieces merged into the system prompt.
type PromptContext struct {
	Username             string
	InitializationPrompt string
	Now                  time.Time
}

// BuildSystemPrompt merges the persona body with the user-specific context
// into the final system prompt sent to the LLM.
func BuildSystemPrompt(p *Persona, pc PromptContext) string {
	var b strings.Builder
	b.WriteString(p.Content)

	b.WriteString("\n\n## CURRENT CONTEXT\n")
	fmt.Fprintf(&b, "- The current date and time is: %s.\n", pc.Now.Format("Monday, 2006-01-02 15:04"))
	if p.Metadata.Language != "" {
		fmt.Fprintf(&b, "- Reply in the language tagged %q.\n", p.Metadata.Language)
	}

	if pc.Username != "" || pc.InitializationPrompt != "" {
		b.WriteString("\n## USER-SPECIFIC INFORMATION\n")
		if pc.Username != "" {
			fmt.Fprintf(&b, "- The user's name is %s.\n", pc.Username)
		}
		if pc.InitializationPrompt != "" {
			fmt.Fprintf(&b, "- Follow the user's initialization prompt: %s\n", pc.InitializationPrompt)
		}
	}

	return b.String()
}
