package wire

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/scholia/internal/auth"
)

func TestTokenSourceForConfig(t *testing.T) {
	v := viper.New()
	v.Set("auth.provider", "config")
	v.Set("auth.account", "default")
	v.Set("auth.token", "abc")

	src, err := TokenSourceFor(v)
	require.NoError(t, err)
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", tok)
}

func TestTokenSourceForConfigEmpty(t *testing.T) {
	v := viper.New()
	v.Set("auth.provider", "config")

	src, err := TokenSourceFor(v)
	require.NoError(t, err)
	_, err = src.Token(context.Background())
	require.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestTokenSourceForEnv(t *testing.T) {
	t.Setenv("MY_TOKEN", "from-env")
	v := viper.New()
	v.Set("auth.provider", "env")
	v.Set("auth.token_env", "MY_TOKEN")

	src, err := TokenSourceFor(v)
	require.NoError(t, err)
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "from-env", tok)
}

func TestTokenSourceForUnknown(t *testing.T) {
	v := viper.New()
	v.Set("auth.provider", "vault")
	_, err := TokenSourceFor(v)
	require.Error(t, err)
}

func TestBuildApp(t *testing.T) {
	v := viper.New()
	v.Set("api.base_url", "http://localhost:9/")
	v.Set("api.timeout", "3s")
	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9", app.Client.BaseURL())
	require.NotNil(t, app.Tokens)
}
