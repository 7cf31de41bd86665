package reminder

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/logger"
)

// entriesExtension is the file extension for per-conversation entry files.
const entriesExtension = ".jsonl"

// ErrBadChatID is returned for conversation identifiers that cannot be used
// as a storage key.
var ErrBadChatID = errors.New("invalid chat id")

// Storage provides durable per-conversation storage for pending entries.
// Each conversation owns one JSONL file (one entry per line) under the
// reminders subdirectory of the workspace. Every mutation is a full
// read-modify-write of that conversation's file with an atomic rename, so a
// crash mid-write never leaves a torn record behind.
//
// Locking is per conversation: concurrent operations on unrelated chats do
// not stall each other.
type Storage struct {
	dir    string
	logger *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStorage creates a Storage rooted at the workspace path.
func NewStorage(workspacePath string, log *logger.Logger) *Storage {
	return &Storage{
		dir:    filepath.Join(workspacePath, constants.RemindersSubdirectory),
		logger: log,
		locks:  make(map[string]*sync.Mutex),
	}
}

// chatLock returns the mutex guarding a single conversation's file.
func (s *Storage) chatLock(chatID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[chatID] = lock
	}
	return lock
}

// filePath maps a conversation id to its storage file. Identifiers that
// would escape the storage directory are rejected.
func (s *Storage) filePath(chatID string) (string, error) {
	if chatID == "" || strings.ContainsAny(chatID, "/\\") || chatID != filepath.Base(chatID) {
		return "", fmt.Errorf("%w: %q", ErrBadChatID, chatID)
	}
	return filepath.Join(s.dir, chatID+entriesExtension), nil
}

// Add appends an entry to the conversation's collection and persists it
// before returning. A persistence failure is surfaced to the caller rather
// than reported as success.
func (s *Storage) Add(chatID string, entry Entry) error {
	path, err := s.filePath(chatID)
	if err != nil {
		return err
	}

	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.load(path)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	if err := s.save(path, entries); err != nil {
		return err
	}

	s.logger.Debug("entry persisted",
		logger.Field{Key: "chat_id", Value: chatID},
		logger.Field{Key: "entry_id", Value: entry.ID},
		logger.Field{Key: "due_at", Value: entry.DueAt})
	return nil
}

// List returns the conversation's entries in insertion order. A missing
// file yields an empty slice, not an error.
func (s *Storage) List(chatID string) ([]Entry, error) {
	path, err := s.filePath(chatID)
	if err != nil {
		return nil, err
	}

	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	return s.load(path)
}

// Remove deletes an entry by id and persists the mutation. Removing an id
// that does not exist is a no-op: cancelling twice is not an error.
func (s *Storage) Remove(chatID, entryID string) error {
	path, err := s.filePath(chatID)
	if err != nil {
		return err
	}

	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.load(path)
	if err != nil {
		return err
	}

	filtered := entries[:0]
	removed := false
	for _, e := range entries {
		if e.ID == entryID {
			removed = true
			continue
		}
		filtered = append(filtered, e)
	}

	if !removed {
		s.logger.Debug("entry not found for removal",
			logger.Field{Key: "chat_id", Value: chatID},
			logger.Field{Key: "entry_id", Value: entryID})
		return nil
	}

	return s.save(path, filtered)
}

// ListAll flattens every conversation's collection. Each conversation is
// read under its own lock, so the result is a consistent per-conversation
// snapshot even with concurrent writers.
func (s *Storage) ListAll() ([]Owned, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reminders directory: %w", err)
	}

	// Stable iteration order keeps sweep logs deterministic.
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name() < dirEntries[j].Name() })

	var all []Owned
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, entriesExtension) {
			continue
		}
		chatID := strings.TrimSuffix(name, entriesExtension)

		entries, err := s.List(chatID)
		if err != nil {
			s.logger.Error("failed to load conversation entries", err,
				logger.Field{Key: "chat_id", Value: chatID})
			continue
		}
		for _, e := range entries {
			all = append(all, Owned{ChatID: chatID, Entry: e})
		}
	}
	return all, nil
}

// Conversations returns the ids of all conversations that have a storage
// file, including empty ones. Used by housekeeping.
func (s *Storage) Conversations() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reminders directory: %w", err)
	}

	var ids []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), entriesExtension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(de.Name(), entriesExtension))
	}
	return ids, nil
}

// Prune removes the storage file of a conversation with no pending entries.
// It is a no-op when entries are still pending.
func (s *Storage) Prune(chatID string) error {
	path, err := s.filePath(chatID)
	if err != nil {
		return err
	}

	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.load(path)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to prune conversation file: %w", err)
	}
	return nil
}

// load reads a conversation file. Caller holds the conversation lock.
func (s *Storage) load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open entries file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			s.logger.Error("failed to unmarshal entry line", err,
				logger.Field{Key: "file", Value: path},
				logger.Field{Key: "line", Value: lineNum})
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan entries file: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// save writes the full conversation state atomically: temporary file,
// fsync, rename. Caller holds the conversation lock.
func (s *Storage) save(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create reminders directory: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary entries file: %w", err)
	}
	defer file.Close()

	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal entry %s: %w", e.ID, err)
		}
		if _, err := file.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", e.ID, err)
		}
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync entries file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename entries file: %w", err)
	}
	return nil
}
