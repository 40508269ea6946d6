package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// Keyring stores the key that encrypts the contact database
type Keyring interface {
	GetKey() (string, error)
	SetKey(key string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "contactbook"
	KeyName     = "directory-key"

	// EnvKey overrides the system keyring, e.g. on headless machines
	EnvKey = "CONTACTBOOK_DB_KEY"
)

var ErrKeyNotFound = errors.New("encryption key not found")

type systemKeyring struct{}

// NewKeyring returns a keyring backed by the OS credential store
// (Keychain, Secret Service, Windows Credential Manager).
func NewKeyring() Keyring {
	return &systemKeyring{}
}

// GetKey returns the key from EnvKey when set, otherwise from the OS store
func (k *systemKeyring) GetKey() (string, error) {
	if key := os.Getenv(EnvKey); key != "" {
		return key, nil
	}

	key, err := keyring.Get(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w in keyring (set %s to bypass)", ErrKeyNotFound, EnvKey)
		}
		return "", fmt.Errorf("failed to retrieve key from keyring: %w", err)
	}

	if key == "" {
		return "", fmt.Errorf("%w: stored key is empty", ErrKeyNotFound)
	}

	return key, nil
}

// SetKey stores the key in the OS store
func (k *systemKeyring) SetKey(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	if err := keyring.Set(ServiceName, KeyName, key); err != nil {
		return fmt.Errorf("failed to store key in keyring (set %s instead): %w", EnvKey, err)
	}

	return nil
}

// DeleteKey removes the key from the OS store
func (k *systemKeyring) DeleteKey() error {
	err := keyring.Delete(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w in keyring", ErrKeyNotFound)
		}
		return fmt.Errorf("failed to delete key from keyring: %w", err)
	}

	return nil
}

// IsAvailable reports whether a key can be obtained without prompting
func (k *systemKeyring) IsAvailable() bool {
	_, err := k.GetKey()
	return err == nil
}
