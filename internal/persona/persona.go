package persona

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata represents the YAML frontmatter of a persona file.
type Metadata struct {
	Name        string `yaml:"name"`               // Unique name/identifier of the persona
	Description string `yaml:"description"`        // Human-readable description of the persona
	Version     string `yaml:"version,omitempty"`  // Version of the persona file
	Language    string `yaml:"language,omitempty"` // Preferred reply language (BCP 47 tag)
}

// Persona represents a fully parsed persona with metadata and its markdown
// body. The body becomes the base of the assistant's system prompt.
type Persona struct {
	Metadata Metadata // Parsed metadata from YAML frontmatter
	Content  string   // Markdown body content
	FilePath string   // Path to the persona file
}

// Parser handles parsing of persona markdown files.
type Parser struct{}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses a persona file content and extracts metadata and body.
// The file should have the following format:
//
//	---
//	name: persona-name
//	description: Persona description
//	---
//
//	Markdown content here...
//
// Returns an error if the file format is invalid.
func (p *Parser) Parse(content string) (*Persona, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to split frontmatter: %w", err)
	}

	var metadata Metadata
	if err := yaml.Unmarshal([]byte(frontmatter), &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}

	if metadata.Name == "" {
		return nil, fmt.Errorf("persona metadata must have a 'name' field")
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("persona body must not be empty")
	}

	return &Persona{
		Metadata: metadata,
		Content:  strings.TrimSpace(body),
	}, nil
}

// splitFrontmatter splits content into YAML frontmatter and markdown body.
// The frontmatter is enclosed in "---" delimiters.
func splitFrontmatter(content string) (frontmatter string, body string, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "---" {
		return "", "", fmt.Errorf("content must start with YAML frontmatter delimited by '---'")
	}

	var frontmatterLines []string
	var bodyLines []string
	inFrontmatter := true
	foundEnd := false

	for _, line := range lines[1:] {
		if inFrontmatter && strings.TrimSpace(line) == "---" {
			inFrontmatter = false
			foundEnd = true
			continue
		}

		if inFrontmatter {
			frontmatterLines = append(frontmatterLines, line)
		} else {
			bodyLines = append(bodyLines, line)
		}
	}

	if !foundEnd {
		return "", "", fmt.Errorf("YAML frontmatter must be closed with '---'")
	}
	if len(frontmatterLines) == 0 {
		return "", "", fmt.Errorf("YAML frontmatter is empty")
	}

	return strings.Join(frontmatterLines, "\n"), strings.Join(bodyLines, "\n"), nil
}
