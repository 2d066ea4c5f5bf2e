// Package credential keeps the session token used for gateway calls in a
// small JSON state file.
package credential

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

type Credential struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

func (c Credential) Empty() bool {
	return c.Token == ""
}

type Store interface {
	Current() Credential
	Token() string
	Save(c Credential) error
	Clear() error
	IsTokenExpired(now time.Time) bool
	GetStateFilePath() string
}

type fileStore struct {
	filePath string
	mu       sync.RWMutex
	current  Credential
}

// NewStore loads the credential saved at filePath, if any. An empty path
// keeps the credential in memory only.
func NewStore(filePath string) Store {
	s := &fileStore{filePath: filePath}
	c, err := s.load()
	if err != nil {
		log.Warn().Err(err).Str("file", filePath).Msg("Failed to load stored credential, starting signed out")
	}
	s.current = c
	return s
}

func (s *fileStore) load() (Credential, error) {
	if s.filePath == "" {
		return Credential{}, nil
	}
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("file", s.filePath).Msg("Credential file not found, starting signed out")
			return Credential{}, nil
		}
		return Credential{}, err
	}
	if len(data) == 0 {
		return Credential{}, nil
	}
	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return Credential{}, err
	}
	return c, nil
}

func (s *fileStore) Current() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *fileStore) Token() string {
	return s.Current().Token
}

func (s *fileStore) Save(c Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(c); err != nil {
		return err
	}
	s.current = c
	log.Debug().Str("user", c.Username).Msg("Saved credential")
	return nil
}

// Clear forgets the credential in memory even when the file cannot be removed.
func (s *fileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Credential{}
	if s.filePath == "" {
		return nil
	}
	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("file", s.filePath).Msg("Failed to remove credential file")
		return err
	}
	log.Debug().Msg("Cleared credential")
	return nil
}

func (s *fileStore) write(c Credential) error {
	if s.filePath == "" {
		return nil
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal credential")
		return err
	}

	tempFilePath := s.filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0600); err != nil {
		log.Error().Err(err).Str("file", tempFilePath).Msg("Failed to write temporary credential file")
		return err
	}
	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		log.Error().Err(err).Str("from", tempFilePath).Str("to", s.filePath).Msg("Failed to rename credential file")
		_ = os.Remove(tempFilePath)
		return err
	}
	return nil
}

// IsTokenExpired decodes the token's exp claim without verifying the
// signature. Missing or undecodable tokens count as expired; a token
// without an exp claim does not.
func (s *fileStore) IsTokenExpired(now time.Time) bool {
	return TokenExpired(s.Token(), now)
}

func (s *fileStore) GetStateFilePath() string {
	return s.filePath
}

func TokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, claims); err != nil {
		log.Debug().Err(err).Msg("Token is not decodable")
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return exp.Before(now)
}
