// internal/config/keyring.go
package config

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "talkup"
	tokenKey    = "chat_token"
)

// ErrNoToken is returned when no chat token has been stored.
var ErrNoToken = errors.New("no chat token stored")

// KeyringStore manages the chat token in the system keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore creates a new keyring store instance
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

func newKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// SetToken stores the bearer token used for sends
func (k *KeyringStore) SetToken(token string) error {
	return k.ring.Set(keyring.Item{
		Key:   tokenKey,
		Data:  []byte(token),
		Label: "talkup chat token",
	})
}

// GetToken retrieves the stored bearer token
func (k *KeyringStore) GetToken() (string, error) {
	item, err := k.ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

// DeleteToken removes the stored token
func (k *KeyringStore) DeleteToken() error {
	return k.ring.Remove(tokenKey)
}
