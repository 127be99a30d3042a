package cli

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mithrel/scholia/internal/present/tui"
	"github.com/mithrel/scholia/internal/wire"
)

func newTUICmd() *cobra.Command {
	var route string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and publish articles interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := tui.ParseRoute(route)
			if err != nil {
				return err
			}
			return runTUI(cmd, getApp(cmd), r, "")
		},
	}
	cmd.Flags().StringVar(&route, "route", "/", "start route: /, /article/{id}, /auth or /upload")
	return cmd
}

// runTUI owns the terminal until the user quits; logs go to log.file or nowhere.
func runTUI(cmd *cobra.Command, app *wire.App, start tui.Route, query string) error {
	if path := app.Cfg.GetString("log.file"); path != "" {
		f, err := tea.LogToFileWith(path, "scholia ", app.Log)
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		app.RedirectLog(io.Discard)
	}
	err := tui.Run(cmd.Context(), tui.Options{
		API:       app.Client,
		Log:       app.Log,
		Start:     start,
		Query:     query,
		AltScreen: app.Cfg.GetBool("tui.alt_screen"),
		Headers:   true,
		Render:    renderOptions(app),
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
