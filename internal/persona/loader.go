package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Loader loads persona files from the workspace persona directory and caches
// them by name. When the directory holds no personas the built-in default is
// served.
type Loader struct {
	dir    string
	parser *Parser

	mu     sync.RWMutex
	cache  map[string]*Persona
	loaded bool
}

// NewLoader creates a Loader reading from the given directory.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:    dir,
		parser: NewParser(),
		cache:  make(map[string]*Persona),
	}
}

// Load loads all persona files from the configured directory. The built-in
// default persona is always present; a workspace file with the same name
// overrides it. Returns a map of persona name to Persona.
func (l *Loader) Load() (map[string]*Persona, error) {
	l.mu.RLock()
	if l.loaded {
		defer l.mu.RUnlock()
		return l.copyCache(), nil
	}
	l.mu.RUnlock()

	personas := map[string]*Persona{
		DefaultName: Default(),
	}

	if l.dir != "" {
		if _, err := os.Stat(l.dir); err == nil {
			entries, err := os.ReadDir(l.dir)
			if err != nil {
				return nil, fmt.Errorf("failed to read persona directory: %w", err)
			}

			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
					continue
				}

				path := filepath.Join(l.dir, entry.Name())
				p, err := l.LoadFile(path)
				if err != nil {
					return nil, fmt.Errorf("failed to load persona from %s: %w", path, err)
				}
				personas[p.Metadata.Name] = p
			}
		}
	}

	l.mu.Lock()
	l.cache = personas
	l.loaded = true
	copied := l.copyCache()
	l.mu.Unlock()

	return copied, nil
}

// LoadFile loads a single persona file, bypassing the cache.
func (l *Loader) LoadFile(path string) (*Persona, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	p, err := l.parser.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse persona file: %w", err)
	}

	p.FilePath = path
	return p, nil
}

// Get retrieves a persona by name. Unknown names fall back to the default
// persona.
func (l *Loader) Get(name string) (*Persona, error) {
	if !l.isLoaded() {
		if _, err := l.Load(); err != nil {
			return nil, err
		}
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if p, ok := l.cache[name]; ok {
		return p, nil
	}
	return l.cache[DefaultName], nil
}

// Reload clears the cache and reloads all personas from disk.
func (l *Loader) Reload() (map[string]*Persona, error) {
	l.mu.Lock()
	l.cache = make(map[string]*Persona)
	l.loaded = false
	l.mu.Unlock()

	return l.Load()
}

func (l *Loader) isLoaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

func (l *Loader) copyCache() map[string]*Persona {
	copied := make(map[string]*Persona, len(l.cache))
	for k, v := range l.cache {
		copied[k] = v
	}
	return copied
}
