package wire

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/mithrel/scholia/internal/auth"
	"github.com/mithrel/scholia/internal/client"
	"github.com/mithrel/scholia/internal/config"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg    *viper.Viper
	Log    *log.Logger
	Tokens auth.TokenSource
	Client *client.Client
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger := log.New(os.Stderr, "scholia ", log.LstdFlags)
	tokens, err := TokenSourceFor(v)
	if err != nil {
		return nil, err
	}
	app := &App{
		Cfg:    v,
		Log:    logger,
		Tokens: tokens,
	}
	app.Client = client.New(v.GetString("api.base_url"), tokens,
		client.WithTimeout(config.Timeout(v)),
		client.WithLogger(logger),
	)
	return app, nil
}

// TokenSourceFor picks the bearer token source named by auth.provider.
func TokenSourceFor(v *viper.Viper) (auth.TokenSource, error) {
	account := v.GetString("auth.account")
	switch p := v.GetString("auth.provider"); p {
	case "", "config":
		store := &auth.ConfigStore{}
		if tok := v.GetString("auth.token"); tok != "" {
			_ = store.Put(account, tok)
		}
		return auth.StoreSource{Store: store, Account: account}, nil
	case "keyring":
		return auth.StoreSource{Store: KeyringStore(v), Account: account}, nil
	case "env":
		return auth.EnvToken{Var: v.GetString("auth.token_env")}, nil
	default:
		return nil, fmt.Errorf("unknown auth.provider %q", p)
	}
}

// KeyringStore returns the keyring-backed token store for the configured service.
func KeyringStore(v *viper.Viper) *auth.KeyringStore {
	return &auth.KeyringStore{Service: v.GetString("auth.keyring_service")}
}

// RedirectLog sends application logs to w, e.g. while the TUI owns the terminal.
func (a *App) RedirectLog(w io.Writer) {
	a.Log.SetOutput(w)
}
