package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/scholia/internal/config"
	"github.com/mithrel/scholia/internal/editor"
	"github.com/mithrel/scholia/internal/listing"
	"github.com/mithrel/scholia/internal/util"
	"github.com/mithrel/scholia/internal/wire"
	"github.com/mithrel/scholia/pkg/api"
)

const (
	maxCompletions = 20
	tagCacheTTL    = time.Minute
	fetchTimeout   = 10 * time.Second
)

type request struct {
	RPC    string           `json:"jsonrpc"`
	ID     *json.RawMessage `json:"id,omitempty"`
	Method string           `json:"method"`
	Params json.RawMessage  `json:"params,omitempty"`
}

type response struct {
	RPC    string           `json:"jsonrpc"`
	ID     *json.RawMessage `json:"id,omitempty"`
	Result interface{}      `json:"result"`
	Error  interface{}      `json:"error,omitempty"`
}

type initializeResult struct {
	Capabilities serverCapabilities `json:"capabilities"`
}

type serverCapabilities struct {
	CompletionProvider completionProvider `json:"completionProvider"`
}

type completionProvider struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type completionItem struct {
	Label string `json:"label"`
	Kind  int    `json:"kind,omitempty"`
}

type completionParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Position     position               `json:"position"`
}

type textDocumentIdentifier struct {
	URI string `json:"uri"`
}

type position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type completionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []completionItem `json:"items"`
}

// articleLister is the part of the article client the server needs.
type articleLister interface {
	ListArticles(ctx context.Context) ([]api.ArticleSummary, error)
}

type server struct {
	api    articleLister
	out    io.Writer
	log    *log.Logger
	now    func() time.Time
	mu     sync.Mutex
	tags   []string
	loaded time.Time
}

// main starts the scholia LSP server. It reads Content-Length framed JSON-RPC
// messages from stdin until EOF and answers tag completions for draft files.
func main() {
	logger := log.New(io.Discard, "[LSP] ", log.LstdFlags)
	if f, err := os.OpenFile(logPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
		defer f.Close()
		logger.SetOutput(f)
	}

	v := viper.New()
	if err := config.Load(context.Background(), v); err != nil {
		logger.Fatalf("config: %v", err)
	}
	app, err := wire.BuildApp(context.Background(), v)
	if err != nil {
		logger.Fatalf("wire: %v", err)
	}
	app.RedirectLog(logger.Writer())

	s := &server{api: app.Client, out: os.Stdout, log: logger, now: time.Now}
	logger.Println("Server started")

	reader := bufio.NewReader(os.Stdin)
	for {
		msg, err := readMessage(reader)
		if err != nil {
			if err != io.EOF {
				logger.Printf("Error reading message: %v", err)
			}
			return
		}
		if !s.handleMessage(msg) {
			return
		}
	}
}

func logPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "scholia-lsp.log")
}

// readMessage reads a single length-prefixed JSON-RPC message.
func readMessage(reader *bufio.Reader) ([]byte, error) {
	contentLength := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if lengthStr, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			length, err := strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = length
		}
	}

	if contentLength <= 0 {
		return nil, fmt.Errorf("missing Content-Length")
	}

	msg := make([]byte, contentLength)
	if _, err := io.ReadFull(reader, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// handleMessage dispatches one request. It returns false once the client asked to exit.
func (s *server) handleMessage(msg []byte) bool {
	s.log.Printf("Received: %s", string(msg))

	var req request
	if err := json.Unmarshal(msg, &req); err != nil {
		s.log.Printf("Error unmarshaling: %v", err)
		return true
	}

	switch req.Method {
	case "initialize":
		resp := initializeResult{
			Capabilities: serverCapabilities{
				CompletionProvider: completionProvider{TriggerCharacters: []string{" ", ","}},
			},
		}
		s.send(response{RPC: "2.0", ID: req.ID, Result: resp})
	case "textDocument/completion":
		resp := completionList{Items: s.tagCompletions(req.Params)}
		s.send(response{RPC: "2.0", ID: req.ID, Result: resp})
	case "shutdown":
		s.send(response{RPC: "2.0", ID: req.ID, Result: nil})
	case "exit":
		return false
	}
	return true
}

func (s *server) send(resp response) {
	bytes, err := json.Marshal(resp)
	if err != nil {
		s.log.Printf("Error marshaling response: %v", err)
		return
	}
	fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n%s", len(bytes), bytes)
	s.log.Printf("Sent: %s", string(bytes))
}

// tagCompletions ranks the known tags against the tag being typed on a Tags: line.
func (s *server) tagCompletions(raw json.RawMessage) []completionItem {
	var params completionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		s.log.Printf("Error parsing completion params: %v", err)
		return nil
	}
	if !strings.HasSuffix(params.TextDocument.URI, editor.DraftSuffix) {
		return nil
	}
	line := s.currentLine(params.TextDocument.URI, params.Position.Line)
	prefix, ok := tagPrefix(line, params.Position.Character)
	if !ok {
		return nil
	}

	tags, err := s.knownTags()
	if err != nil {
		s.log.Printf("Error fetching tags: %v", err)
		return nil
	}
	ranked := util.ScoreCompletions(prefix, tags, maxCompletions)
	items := make([]completionItem, 0, len(ranked))
	for _, tag := range ranked {
		items = append(items, completionItem{Label: tag, Kind: 1})
	}
	return items
}

// knownTags returns the tags of the remote collection, refetched once the cache expires.
func (s *server) knownTags() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tags != nil && s.now().Sub(s.loaded) < tagCacheTTL {
		return s.tags, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	articles, err := s.api.ListArticles(ctx)
	if err != nil {
		return nil, err
	}
	s.tags = listing.Tags(articles)
	if s.tags == nil {
		s.tags = []string{}
	}
	s.loaded = s.now()
	return s.tags, nil
}

// tagPrefix returns the partial tag before the cursor on a "Tags:" line.
// char is an LSP position, counted in UTF-16 code units.
func tagPrefix(line string, char int) (string, bool) {
	rest, ok := strings.CutPrefix(line, strings.TrimSpace(editor.TagsPrefix))
	if !ok {
		return "", false
	}
	start := len(line) - len(rest)
	end := byteOffset(line, char)
	if end < start {
		return "", false
	}
	typed := line[start:end]
	if i := strings.LastIndexByte(typed, ','); i >= 0 {
		typed = typed[i+1:]
	}
	return strings.TrimSpace(typed), true
}

// byteOffset maps a UTF-16 column to a byte offset in line, clamped to its length.
func byteOffset(line string, units int) int {
	n := 0
	for i, r := range line {
		if n >= units {
			return i
		}
		n += utf16.RuneLen(r)
	}
	return len(line)
}

func (s *server) currentLine(uri string, line int) string {
	path := strings.TrimPrefix(uri, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Printf("Error reading file: %v", err)
		return ""
	}
	lines := strings.Split(string(data), "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line], "\r")
}
