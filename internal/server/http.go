package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/scholia/internal/db"
	"github.com/mithrel/scholia/pkg/api"
)

const (
	maxUploadBytes = 32 << 20
	wordsPerMinute = 200
)

var imageName = regexp.MustCompile(`^[0-9a-f]{64}(\.[a-z0-9]{1,5})?$`)

// Server serves the article API backed by a Store.
type Server struct {
	cfg   *viper.Viper
	store db.Store
	log   *log.Logger
	now   func() time.Time
}

func New(cfg *viper.Viper, store db.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, store: store, log: logger, now: time.Now}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/articles", s.handleList)
	mux.HandleFunc("GET /api/articles/{id}", s.handleGet)
	mux.HandleFunc("POST /api/articles", s.auth(s.handleCreate))
	mux.HandleFunc("GET /images/{name}", s.handleImage)
	return mux
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(s.cfg.GetString("serve.token"))
		got := r.Header.Get("Authorization")
		if tok == "" || !strings.HasPrefix(got, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(got, "Bearer ")) != tok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.ListArticles(r.Context())
	if err != nil {
		s.log.Printf("server: list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	out := make([]api.ArticleSummary, 0, len(all))
	for _, a := range all {
		out = append(out, a.Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	a, err := s.store.GetArticle(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		s.log.Printf("server: get id=%d failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "get failed")
		return
	}
	writeJSON(w, http.StatusOK, a.Detail())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	var tags []string
	if raw := strings.TrimSpace(r.FormValue("tags")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			writeError(w, http.StatusBadRequest, "tags must be a JSON array of strings")
			return
		}
	}
	content := r.FormValue("content")
	readTime := ReadTime(content)
	a := api.Article{
		ArticleSummary: api.ArticleSummary{
			Title:       strings.TrimSpace(r.FormValue("title")),
			Author:      strings.TrimSpace(r.FormValue("author")),
			Institution: strings.TrimSpace(r.FormValue("institution")),
			Abstract:    r.FormValue("abstract"),
			Tags:        tags,
			ReadTime:    &readTime,
			PublishDate: s.now().Format("2006-01-02"),
		},
		Content: content,
	}
	if a.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	if file, hdr, err := r.FormFile("image"); err == nil {
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read image")
			return
		}
		name, err := s.storeImage(hdr.Filename, data)
		if err != nil {
			s.log.Printf("server: storing image failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to store image")
			return
		}
		a.ImageURL = baseURL(r) + "/images/" + name
	} else if !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "bad image part")
		return
	}

	created, err := s.store.CreateArticle(r.Context(), a)
	if err != nil {
		s.log.Printf("server: create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	s.log.Printf("server: created article id=%d title=%q", created.ID, created.Title)
	writeJSON(w, http.StatusCreated, created)
}

// storeImage writes data under its BLAKE3 content hash, keeping the extension.
func (s *Server) storeImage(filename string, data []byte) (string, error) {
	dir := s.cfg.GetString("serve.image_dir")
	if dir == "" {
		return "", errors.New("serve.image_dir is not set")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	name := api.HashBytes(data) + strings.ToLower(filepath.Ext(filename))
	if !imageName.MatchString(name) {
		name = api.HashBytes(data)
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return name, nil
	}
	return name, os.WriteFile(path, data, 0o600)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !imageName.MatchString(name) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.GetString("serve.image_dir"), name))
}

// Seed loads a JSON array of articles into the store, skipping ids that already exist.
func (s *Server) Seed(ctx context.Context, r io.Reader) (int, error) {
	var arts []api.Article
	if err := json.NewDecoder(r).Decode(&arts); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}
	n := 0
	for _, a := range arts {
		if _, err := s.store.CreateArticle(ctx, a); err != nil {
			if errors.Is(err, db.ErrConflict) {
				continue
			}
			return n, err
		}
		n++
	}
	s.log.Printf("server: seeded %d articles", n)
	return n, nil
}

// ReadTime estimates reading time at 200 words per minute, rounded up, at least one minute.
func ReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
