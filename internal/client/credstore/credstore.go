// Package credstore persists the bearer token and the cached user profile
// of the seller terminal across restarts.
package credstore

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"go.uber.org/zap"
)

// persisted is the on-disk layout: one opaque token entry plus the
// JSON-serialized profile, stored and cleared as a unit.
type persisted struct {
	Token string              `json:"auth_token,omitempty"`
	User  *models.UserProfile `json:"user_data,omitempty"`
}

// Store is a file-backed credential store. Operations never return errors:
// on storage failure reads report absence, writes become no-ops, and the
// failure is logged.
type Store struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// New returns a Store persisting to the given file path.
func New(path string, log *zap.Logger) *Store {
	return &Store{path: path, log: log}
}

func (s *Store) load() persisted {
	var p persisted
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("failed to read credential file", zap.Error(err))
		}
		return persisted{}
	}
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Error("failed to decode credential file", zap.Error(err))
		return persisted{}
	}
	return p
}

func (s *Store) save(p persisted) {
	data, err := json.Marshal(p)
	if err != nil {
		s.log.Error("failed to encode credentials", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		s.log.Error("failed to write credential file", zap.Error(err))
	}
}

// Token returns the stored bearer token, or false when absent.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.load()
	return p.Token, p.Token != ""
}

// SetToken stores the bearer token, keeping the cached profile.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.load()
	p.Token = token
	s.save(p)
}

// User returns the cached user profile, or false when absent.
func (s *Store) User() (*models.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.load()
	return p.User, p.User != nil
}

// SetUser caches the user profile, keeping the stored token.
func (s *Store) SetUser(u models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.load()
	p.User = &u
	s.save(p)
}

// Clear removes both the token and the cached profile. The two entries
// always live and die together.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Error("failed to remove credential file", zap.Error(err))
	}
}
