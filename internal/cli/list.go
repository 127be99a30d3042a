package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/scholia/internal/listing"
	"github.com/mithrel/scholia/internal/present"
	"github.com/mithrel/scholia/internal/present/tui"
)

func newListCmd() *cobra.Command {
	var (
		query     string
		output    string
		noHeaders bool
		indent    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles, most liked first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, ok := present.ParseMode(output)
			if !ok {
				return fmt.Errorf("invalid --output %q (use tui|plain|pretty|json|ndjson)", output)
			}
			if mode == present.ModeTUI {
				if isTerminal(cmd.OutOrStdout()) {
					return runTUI(cmd, app, tui.Route{Kind: tui.ListingRoute}, query)
				}
				mode = present.ModePlain
			}
			articles, err := app.Client.ListArticles(cmd.Context())
			if err != nil {
				return err
			}
			shown := listing.Display(articles, query)
			opts := present.Options{
				Mode:       mode,
				JSONIndent: indent,
				Headers:    !noHeaders,
				Render:     renderOptions(app),
			}
			return renderArticles(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), shown, opts)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only articles whose title or abstract contains this text")
	cmd.Flags().StringVarP(&output, "output", "o", "tui", "output format: tui|plain|pretty|json|ndjson")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "omit the header row in plain output")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent JSON output")
	return cmd
}
