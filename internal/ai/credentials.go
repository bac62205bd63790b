package ai

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidCredential is returned by SaveValidated when the service rejects the key.
var ErrInvalidCredential = errors.New("API key was rejected")

// KV is the storage the API key lives in.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Validator checks a key against the service.
type Validator interface {
	ValidateCredential(ctx context.Context, apiKey string) bool
}

// Credentials stores the API key under a single storage key.
type Credentials struct {
	kv  KV
	key string
}

// NewCredentials returns Credentials stored under key.
func NewCredentials(kv KV, key string) *Credentials {
	return &Credentials{kv: kv, key: key}
}

// Get returns the stored API key.
func (c *Credentials) Get() (string, bool, error) {
	v, ok, err := c.kv.Get(c.key)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}

// Save stores apiKey without checking it.
func (c *Credentials) Save(apiKey string) error {
	return c.kv.Set(c.key, strings.TrimSpace(apiKey))
}

// Remove deletes the stored key.
func (c *Credentials) Remove() error {
	return c.kv.Remove(c.key)
}

// SaveValidated stores apiKey only if v accepts it.
func (c *Credentials) SaveValidated(ctx context.Context, v Validator, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return ErrNoCredential
	}
	if !v.ValidateCredential(ctx, apiKey) {
		return ErrInvalidCredential
	}
	return c.Save(apiKey)
}

// Check reports whether a key is stored and accepted by v.
func (c *Credentials) Check(ctx context.Context, v Validator) (bool, error) {
	apiKey, ok, err := c.Get()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNoCredential
	}
	return v.ValidateCredential(ctx, apiKey), nil
}
