package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/mithrel/scholia/internal/db"
	"github.com/mithrel/scholia/internal/present/tui"
	"github.com/mithrel/scholia/internal/server"
	"github.com/mithrel/scholia/pkg/api"
)

const testToken = "secret"

const seedJSON = `[
  {"id": 1, "title": "Graph kernels", "author": "Ada", "abstract": "kernels on graphs", "tags": ["ml"], "likes": 3, "content": "one\ntwo"},
  {"id": 2, "title": "Protein folding", "author": "Bo", "abstract": "a deep learning view", "tags": ["bio", "ml"], "likes": 9, "content": "fold"},
  {"id": 3, "title": "Deep sea vents", "author": "Cy", "abstract": "geology", "tags": ["geo"], "likes": 5, "content": "vents"}
]`

// startSandbox runs the article API on an in-memory store seeded with seedJSON.
func startSandbox(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := viper.New()
	cfg.Set("serve.token", testToken)
	cfg.Set("serve.image_dir", t.TempDir())
	store, err := db.Open(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	srv := server.New(cfg, store, log.New(io.Discard, "", 0))
	_, err = srv.Seed(context.Background(), strings.NewReader(seedJSON))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func writeConfigTOML(t *testing.T, dir, baseURL, extra string) string {
	t.Helper()
	cfg := filepath.Join(dir, "config.toml")
	content := `data_dir = "` + strings.ReplaceAll(dir, "\\", "\\\\") + `"

[api]
base_url = "` + baseURL + `"
timeout = "5s"

[auth]
provider = "config"
token = "` + testToken + `"
` + extra
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))
	return cfg
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func listJSON(t *testing.T, cfgPath string, extra ...string) []api.ArticleSummary {
	t.Helper()
	args := append([]string{"--config", cfgPath, "list", "--output", "json"}, extra...)
	out, errOut, err := run(t, "", args...)
	require.NoError(t, err, errOut)
	var got []api.ArticleSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	return got
}

func titles(in []api.ArticleSummary) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		out = append(out, a.Title)
	}
	return out
}

func TestListSortsByLikesAndFilters(t *testing.T) {
	ts := startSandbox(t)
	cfgPath := writeConfigTOML(t, t.TempDir(), ts.URL, "")

	all := listJSON(t, cfgPath)
	assert.Equal(t, []string{"Protein folding", "Deep sea vents", "Graph kernels"}, titles(all))

	deep := listJSON(t, cfgPath, "--query", "DEEP")
	assert.Equal(t, []string{"Protein folding", "Deep sea vents"}, titles(deep))

	none := listJSON(t, cfgPath, "--query", "nothing matches")
	assert.Empty(t, none)
}

func TestListDefaultsToPlainWithoutTerminal(t *testing.T) {
	ts := startSandbox(t)
	cfgPath := writeConfigTOML(t, t.TempDir(), ts.URL, "")

	out, errOut, err := run(t, "", "--config", cfgPath, "list")
	require.NoError(t, err, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "id\t"))
	assert.True(t, strings.HasPrefix(lines[1], "2\t9\t"))

	out, _, err = run(t, "", "--config", cfgPath, "list", "--noheaders")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestListRejectsUnknownOutput(t *testing.T) {
	ts := startSandbox(t)
	cfgPath := writeConfigTOML(t, t.TempDir(), ts.URL, "")
	_, _, err := run(t, "", "--config", cfgPath, "list", "--output", "yaml")
	require.Error(t, err)
}

func TestShowJSONAndPlain(t *testing.T) {
	ts := startSandbox(t)
	cfgPath := writeConfigTOML(t, t.TempDir(), ts.URL, "")

	out, errOut, err := run(t, "", "--config", cfgPath, "show", "1", "--output", "json")
	require.NoError(t, err, errOut)
	var d api.ArticleDetail
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "Graph kernels", d.Title)
	assert.Equal(t, "one\ntwo", d.Content)

	out, _, err = run(t, "", "--config", cfgPath, "show", "1", "--output", "plain", "--noheaders")
	require.NoError(t, err)
	assert.Contains(t, out, "one\n")
	assert.Contains(t, out, "two\n")
}

func TestShowUnknownIDFails(t *testing.T) {
	ts := startSandbox(t)
	cfgPath := writeConfigTOML(t, t.TempDir(), ts.URL, "")

	_, _, err := run(t, "", "--config", cfgPath, "show", "99")
	require.Error(t, err)
	_, _, err = run(t, "", "--config", cfgPath, "show", "abc")
	require.Error(t, err)
}

func TestPublishThenList(t *testing.T) {
	ts := startSandbox(t)
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir, ts.URL, "")
	img := filepath.Join(dir, "cover.PNG")
	require.NoError(t, os.WriteFile(img, []byte("pixels"), 0o600))

	out, errOut, err := run(t, "",
		"--config", cfgPath, "publish",
		"--title", "Sea ice",
		"--author", "Di",
		"--abstract", "melting",
		"--tag", " climate ", "--tag", "", "--tag", "climate",
		"--content", "first\nsecond",
		"--image", img,
	)
	require.NoError(t, err, errOut)
	assert.Contains(t, errOut, "Post published!")

	var created api.Article
	require.NoError(t, json.Unmarshal([]byte(out), &created), out)
	assert.Equal(t, 4, created.ID)
	assert.Equal(t, []string{"climate", "climate"}, created.Tags)
	assert.True(t, strings.HasSuffix(created.ImageURL, ".png"), created.ImageURL)

	got := listJSON(t, cfgPath, "--query", "sea")
	assert.Equal(t, []string{"Deep sea vents", "Sea ice"}, titles(got))
}

func TestPublishTitleFromContent(t *testing.T) {
	ts := startSandbox(t)
	cfgPath := writeConfigTOML(t, t.TempDir(), ts.URL, "")

	out, errOut, err := run(t, "# Tidal power\n\nbody text\n", "--config", cfgPath, "publish", "--content-file", "-")
	require.NoError(t, err, errOut)
	var created api.Article
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "Tidal power", created.Title)
	assert.Equal(t, "# Tidal power\n\nbody text\n", created.Content)
}

func TestPublishWithoutTokenFails(t *testing.T) {
	ts := startSandbox(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`data_dir = "`+dir+`"
[api]
base_url = "`+ts.URL+`"
`), 0o600))

	_, _, err := run(t, "", "--config", cfg, "publish", "--title", "x")
	require.Error(t, err)
	assert.Len(t, listJSON(t, cfg), 3)
}

func TestPublishDryRun(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir(), "http://127.0.0.1:1", "")

	out, errOut, err := run(t, "", "--config", cfgPath, "publish", "--dry-run", "--title", "Draft", "--tag", "a")
	require.NoError(t, err)
	assert.Contains(t, errOut, "would POST")
	var d api.Draft
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "Draft", d.Title)
	assert.Equal(t, []string{"a"}, d.Tags)
}

func TestImportNDJSONAndArray(t *testing.T) {
	ts := startSandbox(t)
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir, ts.URL, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fig.jpg"), []byte("jpeg"), 0o600))

	nd := filepath.Join(dir, "drafts.ndjson")
	require.NoError(t, os.WriteFile(nd, []byte(`{"title":"Imported one","tags":["x"],"content":"a"}
{"title":"Imported two","content":"b","image_path":"fig.jpg"}
{"title":"Broken image","content":"c","image_path":"missing.jpg"}
`), 0o600))
	out, errOut, err := run(t, "", "--config", cfgPath, "import", "--file", nd)
	require.NoError(t, err, errOut)
	assert.Contains(t, errOut, "Published: 2\nFailed: 1\n")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	var res importResult
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &res))
	assert.False(t, res.OK)
	assert.Equal(t, 2, res.Index)
	assert.NotEmpty(t, res.Error)

	arr := filepath.Join(dir, "drafts.json")
	require.NoError(t, os.WriteFile(arr, []byte(`  [{"title":"Imported three","content":"c"}]`), 0o600))
	_, errOut, err = run(t, "", "--config", cfgPath, "import", "--file", arr)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Published: 1\n")

	assert.Len(t, listJSON(t, cfgPath, "--query", "imported"), 3)
}

func TestImportRequiresFile(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir(), "http://127.0.0.1:1", "")
	_, _, err := run(t, "", "--config", cfgPath, "import")
	require.Error(t, err)
}

func TestAuthLoginStatusLogout(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir, "http://127.0.0.1:1", "")
	// switch to the keyring provider
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, bytes.Replace(data, []byte(`provider = "config"`), []byte(`provider = "keyring"`), 1), 0o600))

	out, _, err := run(t, "", "--config", cfgPath, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "provider: keyring")
	assert.Contains(t, out, "token: (none)")

	out, _, err = run(t, "tok-123456\n", "--config", cfgPath, "auth", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Token saved")

	out, _, err = run(t, "", "--config", cfgPath, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "token: ******3456")

	_, _, err = run(t, "", "--config", cfgPath, "auth", "logout")
	require.NoError(t, err)
	out, _, err = run(t, "", "--config", cfgPath, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "token: (none)")
}

func TestAuthLoginRejectsEmpty(t *testing.T) {
	keyring.MockInit()
	cfgPath := writeConfigTOML(t, t.TempDir(), "http://127.0.0.1:1", "")
	_, _, err := run(t, "\n", "--config", cfgPath, "auth", "login")
	require.Error(t, err)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "***", maskToken("abc"))
	assert.Equal(t, "**cdef", maskToken("abcdef"))
}

func TestInvalidConfigIsReported(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir, "http://127.0.0.1:1", "\n[render]\nword_wrap = 0\n")
	_, _, err := run(t, "", "--config", cfgPath, "list", "--output", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.word_wrap")

	// config commands still run so the file can be repaired
	out, _, err := run(t, "", "--config", cfgPath, "config", "generate", "--output", filepath.Join(dir, "fresh.toml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote ")
}

func TestBaseURLFlagOverridesConfig(t *testing.T) {
	ts := startSandbox(t)
	cfgPath := writeConfigTOML(t, t.TempDir(), "http://127.0.0.1:1", "")
	out, errOut, err := run(t, "", "--config", cfgPath, "--base-url", ts.URL, "list", "--output", "ndjson")
	require.NoError(t, err, errOut)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestConfigGenerateUpdate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir, "http://127.0.0.1:1", "")
	out := filepath.Join(dir, "generated.toml")

	_, _, err := run(t, "", "--config", cfgPath, "config", "generate", "--output", out)
	require.NoError(t, err)
	_, _, err = run(t, "", "--config", cfgPath, "config", "generate", "--output", out)
	require.Error(t, err)

	stdout, _, err := run(t, "", "--config", cfgPath, "config", "generate", "--output", out, "--update")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Config already up to date")

	_, _, err = run(t, "", "--config", cfgPath, "config", "generate", "--output", out, "--update", "--overwrite")
	require.Error(t, err)
}

func TestTUIRejectsUnknownRoute(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir(), "http://127.0.0.1:1", "")
	_, _, err := run(t, "", "--config", cfgPath, "tui", "--route", "/nope")
	require.ErrorIs(t, err, tui.ErrUnknownRoute)
}

func TestServeRequiresToken(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir(), "http://127.0.0.1:1", "")
	_, _, err := run(t, "", "--config", cfgPath, "serve", "--dsn", "mem://")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serve.token")
}

func TestServeSeedsAndStops(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(seedJSON), 0o600))
	cfgPath := writeConfigTOML(t, dir, "http://127.0.0.1:1", "\n[serve]\ntoken = \"s\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	root := NewRootCmd()
	pr, pw := io.Pipe()
	root.SetOut(pw)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", cfgPath, "serve", "--addr", "127.0.0.1:0", "--dsn", "mem://", "--seed", seed})
	done := make(chan error, 1)
	go func() {
		done <- root.ExecuteContext(ctx)
		_ = pw.Close()
	}()

	line, err := readLine(pr)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "listening on http://"), line)
	base := strings.TrimPrefix(strings.TrimSpace(line), "listening on ")

	got := listJSON(t, writeConfigTOML(t, t.TempDir(), base, ""))
	assert.Len(t, got, 3)

	cancel()
	go func() { _, _ = io.Copy(io.Discard, pr) }()
	require.NoError(t, <-done)
}

func readLine(r io.Reader) (string, error) {
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		if _, err := r.Read(buf); err != nil {
			return b.String(), err
		}
		if buf[0] == '\n' {
			return b.String(), nil
		}
		b.WriteByte(buf[0])
	}
}
