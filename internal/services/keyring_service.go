package services

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const keyringServiceName = "modelshelf"

// SecretVault keeps API keys outside the settings database.
type SecretVault interface {
	GetSecret(name string) (string, error)
	SetSecret(name, value string) error
	DeleteSecret(name string) error
}

// KeyringService stores secrets in the OS keyring.
type KeyringService struct {
	service string
}

func NewKeyringService() *KeyringService {
	return &KeyringService{service: keyringServiceName}
}

// GetSecret returns "" when nothing is stored under name.
func (s *KeyringService) GetSecret(name string) (string, error) {
	if name == "" {
		return "", errors.New("secret name is required")
	}
	value, err := keyring.Get(s.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// SetSecret stores value; an empty value deletes the entry.
func (s *KeyringService) SetSecret(name, value string) error {
	if name == "" {
		return errors.New("secret name is required")
	}
	if value == "" {
		return s.DeleteSecret(name)
	}
	return keyring.Set(s.service, name, value)
}

func (s *KeyringService) DeleteSecret(name string) error {
	if name == "" {
		return errors.New("secret name is required")
	}
	err := keyring.Delete(s.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

const (
	secretOpenAI    = "openai"
	secretAnthropic = "anthropic"
)

func modelSecretName(id string) string {
	return "model:" + id
}
