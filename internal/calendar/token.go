package calendar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service name tokens are stored under.
const KeyringService = "fieldplan-calendar"

// TokenStore persists the calendar access token.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	DeleteToken() error
}

// KeyringTokenStore keeps the token in the OS keyring, keyed by user.
type KeyringTokenStore struct {
	User string
}

// NewKeyringTokenStore returns a store for the given user's token.
func NewKeyringTokenStore(user string) *KeyringTokenStore {
	if user == "" {
		user = "default"
	}
	return &KeyringTokenStore{User: user}
}

// Token returns ErrNoToken when nothing is stored.
func (s *KeyringTokenStore) Token() (string, error) {
	tok, err := keyring.Get(KeyringService, s.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("reading calendar token from keyring: %w", err)
	}
	return tok, nil
}

func (s *KeyringTokenStore) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("calendar token cannot be empty")
	}
	if err := keyring.Set(KeyringService, s.User, token); err != nil {
		return fmt.Errorf("storing calendar token in keyring: %w", err)
	}
	return nil
}

// DeleteToken returns ErrNoToken when nothing was stored.
func (s *KeyringTokenStore) DeleteToken() error {
	if err := keyring.Delete(KeyringService, s.User); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNoToken
		}
		return fmt.Errorf("deleting calendar token from keyring: %w", err)
	}
	return nil
}
