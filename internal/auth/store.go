// Package auth resolves the bearer credential attached to publish requests.
package auth

import (
	"context"
	"errors"
	"os"
	"strings"
)

// TokenSource yields the bearer token for the article API.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenStore persists tokens per account.
type TokenStore interface {
	Get(account string) (string, error)
	Put(account, token string) error
	Delete(account string) error
}

var ErrTokenNotFound = errors.New("token not found")

// StaticToken is a token taken verbatim from configuration.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	tok := strings.TrimSpace(string(s))
	if tok == "" {
		return "", ErrTokenNotFound
	}
	return tok, nil
}

// EnvToken reads the token from an environment variable at call time.
type EnvToken struct {
	Var string
}

func (e EnvToken) Token(context.Context) (string, error) {
	tok := strings.TrimSpace(os.Getenv(e.Var))
	if tok == "" {
		return "", ErrTokenNotFound
	}
	return tok, nil
}

// StoreSource reads the token for Account from a TokenStore.
type StoreSource struct {
	Store   TokenStore
	Account string
}

func (s StoreSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Store.Get(s.Account)
}

// ConfigStore keeps tokens in config-managed storage.
type ConfigStore struct {
	Tokens map[string]string
}

func (s *ConfigStore) Get(account string) (string, error) {
	if s == nil || s.Tokens == nil {
		return "", ErrTokenNotFound
	}
	val, ok := s.Tokens[account]
	if !ok || val == "" {
		return "", ErrTokenNotFound
	}
	return val, nil
}

func (s *ConfigStore) Put(account, token string) error {
	if s.Tokens == nil {
		s.Tokens = map[string]string{}
	}
	s.Tokens[account] = token
	return nil
}

func (s *ConfigStore) Delete(account string) error {
	if s == nil || s.Tokens == nil {
		return nil
	}
	delete(s.Tokens, account)
	return nil
}
