package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/scholia/internal/auth"
	"github.com/mithrel/scholia/internal/wire"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the publishing token",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token in the system keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			tok, err := readToken(cmd)
			if err != nil {
				return err
			}
			if tok == "" {
				return errors.New("empty token")
			}
			store := wire.KeyringStore(app.Cfg)
			if err := store.Put(app.Cfg.GetString("auth.account"), tok); err != nil {
				return fmt.Errorf("store token: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Token saved to keyring.")
			if app.Cfg.GetString("auth.provider") != "keyring" {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "note: set auth.provider = \"keyring\" to use it")
			}
			return nil
		},
	}
}

// readToken prompts without echo on a terminal and reads one line otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the token from the system keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := wire.KeyringStore(app.Cfg).Delete(app.Cfg.GetString("auth.account")); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "provider: %s\n", app.Cfg.GetString("auth.provider"))
			tok, err := app.Tokens.Token(cmd.Context())
			switch {
			case errors.Is(err, auth.ErrTokenNotFound):
				_, _ = fmt.Fprintln(out, "token: (none)")
			case err != nil:
				_, _ = fmt.Fprintf(out, "token: error: %v\n", err)
			default:
				_, _ = fmt.Fprintf(out, "token: %s\n", maskToken(tok))
			}
			_, _ = fmt.Fprintf(out, "keyring: %t\n", auth.KeyringAvailable())
			return nil
		},
	}
}

func maskToken(tok string) string {
	if len(tok) <= 4 {
		return strings.Repeat("*", len(tok))
	}
	return strings.Repeat("*", len(tok)-4) + tok[len(tok)-4:]
}
