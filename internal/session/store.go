package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Store holds every known session in memory and snapshots the whole map to
// a JSON file on each mutation. The snapshot is written to a temp file and
// renamed into place so a crash mid-write never truncates the store.
type Store struct {
	mu       sync.RWMutex
	path     string
	sessions map[string]*Session
}

// Open loads the session file at path, or starts empty when the file is
// missing or unreadable.
func Open(path string) *Store {
	s := &Store{
		path:     path,
		sessions: make(map[string]*Session),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("could not read session file %s: %v", path, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.sessions); err != nil {
		log.Warnf("corrupt session file %s, starting fresh: %v", path, err)
		s.sessions = make(map[string]*Session)
	}
	return s
}

// Get returns a copy of the session for userID.
func (s *Store) Get(userID string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Ensure returns the session for userID, creating and persisting a default
// one (Arabic, awaiting language selection) on first contact.
func (s *Store) Ensure(userID string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return *sess, nil
	}
	sess := &Session{Language: "ar", State: StateAwaitingLanguage}
	s.sessions[userID] = sess
	return *sess, s.persist()
}

// Update applies fn to the session for userID (creating a default one if
// needed) and persists the store before returning. The read-modify-write is
// atomic with respect to other Update calls.
func (s *Store) Update(userID string, fn func(*Session)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{Language: "ar", State: StateAwaitingLanguage}
		s.sessions[userID] = sess
	}
	fn(sess)
	return *sess, s.persist()
}

// Len reports the number of known sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// persist writes the full snapshot. Callers must hold the write lock.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode sessions")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".sessions-*")
	if err != nil {
		return errors.Wrap(err, "could not create temp session file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "could not write session snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "could not close session snapshot")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "could not replace session file")
	}
	return nil
}
