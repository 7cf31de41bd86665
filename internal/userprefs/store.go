package userprefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/logger"
)

// prefsExtension is the file extension for per-conversation preference files.
const prefsExtension = ".json"

// Store provides durable per-conversation preference storage. Each
// conversation owns one JSON file under the prefs subdirectory of the
// workspace, rewritten atomically on every mutation.
type Store struct {
	dir    string
	logger *logger.Logger

	mu sync.Mutex
}

// NewStore creates a Store rooted at the workspace path.
func NewStore(workspacePath string, log *logger.Logger) *Store {
	return &Store{
		dir:    filepath.Join(workspacePath, constants.PrefsSubdirectory),
		logger: log,
	}
}

// filePath maps a conversation id to its preference file. Identifiers that
// would escape the storage directory are rejected.
func (s *Store) filePath(chatID string) (string, error) {
	if chatID == "" || strings.ContainsAny(chatID, "/\\") || chatID != filepath.Base(chatID) {
		return "", fmt.Errorf("%w: %q", ErrBadChatID, chatID)
	}
	return filepath.Join(s.dir, chatID+prefsExtension), nil
}

// Get returns the conversation's preferences. A missing file yields zero
// preferences, not an error.
func (s *Store) Get(chatID string) (Preferences, error) {
	path, err := s.filePath(chatID)
	if err != nil {
		return Preferences{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(path)
}

// SetUsername stores the user's name.
func (s *Store) SetUsername(chatID, username string) error {
	return s.update(chatID, func(p *Preferences) error {
		p.Username = strings.TrimSpace(username)
		return nil
	})
}

// SetInitializationPrompt stores the prompt that customizes the assistant's
// behavior for this conversation.
func (s *Store) SetInitializationPrompt(chatID, prompt string) error {
	return s.update(chatID, func(p *Preferences) error {
		p.InitializationPrompt = strings.TrimSpace(prompt)
		return nil
	})
}

// SetVoice stores the voice preference. Only male/female are accepted.
func (s *Store) SetVoice(chatID, voice string) error {
	return s.update(chatID, func(p *Preferences) error {
		normalized := strings.ToLower(strings.TrimSpace(voice))
		if normalized != VoiceMale && normalized != VoiceFemale {
			return fmt.Errorf("%w: %q", ErrUnsupportedVoice, voice)
		}
		p.Voice = normalized
		return nil
	})
}

// SetLanguage stores the language preference, normalized to the canonical
// tag of the closest supported language.
func (s *Store) SetLanguage(chatID, lang string) error {
	return s.update(chatID, func(p *Preferences) error {
		normalized, err := NormalizeLanguage(lang)
		if err != nil {
			return err
		}
		p.Language = normalized
		return nil
	})
}

// update applies a mutation to the conversation's preferences and persists
// the result before returning.
func (s *Store) update(chatID string, mutate func(*Preferences) error) error {
	path, err := s.filePath(chatID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load(path)
	if err != nil {
		return err
	}

	if err := mutate(&prefs); err != nil {
		return err
	}

	if err := s.save(path, prefs); err != nil {
		return err
	}

	s.logger.Debug("preferences persisted",
		logger.Field{Key: "chat_id", Value: chatID})
	return nil
}

// load reads a preference file. Caller holds the store lock.
func (s *Store) load(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Preferences{}, nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to read preferences file: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return prefs, nil
}

// save writes the preferences atomically: temporary file, fsync, rename.
// Caller holds the store lock.
func (s *Store) save(path string, prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create prefs directory: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary preferences file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync preferences file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename preferences file: %w", err)
	}
	return nil
}
