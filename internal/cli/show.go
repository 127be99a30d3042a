package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mithrel/scholia/internal/present"
)

func newShowCmd() *cobra.Command {
	var (
		output    string
		noHeaders bool
	)
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 0 {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			mode, ok := present.ParseMode(output)
			if !ok || mode == present.ModeTUI {
				return fmt.Errorf("invalid --output %q (use plain|pretty|json|ndjson)", output)
			}
			app := getApp(cmd)
			d, err := app.Client.GetArticle(cmd.Context(), id)
			if err != nil {
				return err
			}
			opts := present.Options{
				Mode:       mode,
				JSONIndent: true,
				Headers:    !noHeaders,
				Render:     renderOptions(app),
			}
			return renderArticle(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), d, opts)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "pretty", "output format: plain|pretty|json|ndjson")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "omit metadata lines in plain output")
	return cmd
}
