package cli

import (
	"context"
	"io"
	"os"
	"os/exec"

	"golang.org/x/term"

	"github.com/mithrel/scholia/internal/present"
	"github.com/mithrel/scholia/internal/present/format"
	"github.com/mithrel/scholia/internal/wire"
	"github.com/mithrel/scholia/pkg/api"
)

const defaultPager = "less -FRSX"

func renderOptions(app *wire.App) format.RenderOptions {
	return format.RenderOptions{
		Style:    app.Cfg.GetString("render.style"),
		WordWrap: app.Cfg.GetInt("render.word_wrap"),
	}
}

func renderArticles(ctx context.Context, out, errOut io.Writer, articles []api.ArticleSummary, opts present.Options) error {
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderArticles(w, articles, opts)
	})
}

func renderArticle(ctx context.Context, out, errOut io.Writer, d api.ArticleDetail, opts present.Options) error {
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderArticle(w, d, opts)
	})
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
