package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestConfigStoreRoundTrip(t *testing.T) {
	store := &ConfigStore{}
	require.NoError(t, store.Put("default", "secret"))
	got, err := store.Get("default")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
	require.NoError(t, store.Delete("default"))
	_, err = store.Get("default")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestStaticToken(t *testing.T) {
	tok, err := StaticToken(" abc ").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = StaticToken("").Token(context.Background())
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestEnvToken(t *testing.T) {
	t.Setenv("SCHOLIA_TEST_TOKEN", "from-env")
	tok, err := EnvToken{Var: "SCHOLIA_TEST_TOKEN"}.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok)

	t.Setenv("SCHOLIA_TEST_TOKEN", "")
	_, err = EnvToken{Var: "SCHOLIA_TEST_TOKEN"}.Token(context.Background())
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestStoreSourceHonoursContext(t *testing.T) {
	src := StoreSource{Store: &ConfigStore{Tokens: map[string]string{"me": "t0k"}}, Account: "me"}
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t0k", tok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Token(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyringStoreWithMockProvider(t *testing.T) {
	keyring.MockInit()
	store := &KeyringStore{Service: "scholia-test"}

	_, err := store.Get("alice")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, store.Put("alice", "jwt"))
	got, err := store.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "jwt", got)

	require.NoError(t, store.Delete("alice"))
	require.NoError(t, store.Delete("alice"))
}
