package persona

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePersona(t *testing.T, dir, filename, name string) {
	t.Helper()
	content := "---\nname: " + name + "\ndescription: test persona\n---\nBody of " + name + "."
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644))
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "grumpy.md", "grumpy")
	writePersona(t, dir, "cheerful.md", "cheerful")

	personas, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Len(t, personas, 3) // two from disk plus the built-in default
	assert.Contains(t, personas, "grumpy")
	assert.Contains(t, personas, "cheerful")
	assert.Contains(t, personas, DefaultName)
}

func TestLoader_Load_MissingDirectory(t *testing.T) {
	personas, err := NewLoader(filepath.Join(t.TempDir(), "nope")).Load()
	require.NoError(t, err)

	assert.Len(t, personas, 1)
	assert.Contains(t, personas, DefaultName)
}

func TestLoader_Load_WorkspaceOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "cactus.md", DefaultName)

	loader := NewLoader(dir)
	p, err := loader.Get(DefaultName)
	require.NoError(t, err)

	assert.Equal(t, "Body of "+DefaultName+".", p.Content)
}

func TestLoader_Get_UnknownFallsBackToDefault(t *testing.T) {
	loader := NewLoader(t.TempDir())

	p, err := loader.Get("does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, p.Metadata.Name)
}

func TestLoader_Load_SkipsNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "real.md", "real")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a persona"), 0644))

	personas, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Contains(t, personas, "real")
	assert.Len(t, personas, 2)
}

func TestLoader_Load_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no frontmatter"), 0644))

	_, err := NewLoader(dir).Load()
	assert.Error(t, err)
}

func TestLoader_Reload(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	personas, err := loader.Load()
	require.NoError(t, err)
	assert.Len(t, personas, 1)

	writePersona(t, dir, "late.md", "late")

	// Cached until reloaded
	personas, err = loader.Load()
	require.NoError(t, err)
	assert.Len(t, personas, 1)

	personas, err = loader.Reload()
	require.NoError(t, err)
	assert.Len(t, personas, 2)
}

func TestBuildSystemPrompt(t *testing.T) {
	p := &Persona{
		Metadata: Metadata{Name: "test", Language: "en"},
		Content:  "You are a test persona.",
	}

	prompt := BuildSystemPrompt(p, PromptContext{
		Username:             "Lorenzo",
		InitializationPrompt: "Always answer in rhymes.",
		Now:                  time.Date(2025, 1, 1, 10, 30, 0, 0, time.Local),
	})

	assert.Contains(t, prompt, "You are a test persona.")
	assert.Contains(t, prompt, "Wednesday, 2025-01-01 10:30")
	assert.Contains(t, prompt, "Lorenzo")
	assert.Contains(t, prompt, "Always answer in rhymes.")
	assert.Contains(t, prompt, `"en"`)
}

func TestBuildSystemPrompt_NoUserContext(t *testing.T) {
	prompt := BuildSystemPrompt(Default(), PromptContext{
		Now: time.Date(2025, 1, 1, 10, 30, 0, 0, time.Local),
	})

	assert.NotContains(t, prompt, "USER-SPECIFIC INFORMATION")
}
