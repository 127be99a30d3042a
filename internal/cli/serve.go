package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/scholia/internal/db"
	"github.com/mithrel/scholia/internal/server"
)

var serveFlags = map[string]string{
	"addr": "serve.addr",
	"dsn":  "serve.dsn",
}

func newServeCmd() *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local sandbox of the article API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			v := app.Cfg
			applyConfigFlagOverrides(cmd, v, serveFlags)
			if strings.TrimSpace(v.GetString("serve.token")) == "" {
				return fmt.Errorf("serve.token is required for the sandbox server")
			}
			if err := os.MkdirAll(v.GetString("serve.image_dir"), 0o700); err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := db.Open(ctx, v.GetString("serve.dsn"))
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(v, store, app.Log)
			if seed != "" {
				f, err := os.Open(seed)
				if err != nil {
					return err
				}
				_, err = srv.Seed(ctx, f)
				_ = f.Close()
				if err != nil {
					return err
				}
			}

			ln, err := net.Listen("tcp", v.GetString("serve.addr"))
			if err != nil {
				return err
			}
			httpSrv := &http.Server{Handler: srv.Router(), ReadHeaderTimeout: 10 * time.Second}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", ln.Addr())

			errCh := make(chan error, 1)
			go func() { errCh <- httpSrv.Serve(ln) }()
			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				app.Log.Printf("server: shutting down")
				return httpSrv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides serve.addr)")
	cmd.Flags().String("dsn", "", "store: mem:// or sqlite://path (overrides serve.dsn)")
	cmd.Flags().StringVar(&seed, "seed", "", "JSON array of articles to load at start")
	return cmd
}
