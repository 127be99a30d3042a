package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mithrel/scholia/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

const articleColumns = `id, title, author, institution, abstract, tags, likes, comments, shares, views, read_time, publish_date, image_url, content`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(r rowScanner) (api.Article, error) {
	var a api.Article
	var tagsJSON string
	var readTime sql.NullString
	if err := r.Scan(&a.ID, &a.Title, &a.Author, &a.Institution, &a.Abstract, &tagsJSON,
		&a.Likes, &a.Comments, &a.Shares, &a.Views, &readTime, &a.PublishDate, &a.ImageURL, &a.Content); err != nil {
		return api.Article{}, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &a.Tags)
	if readTime.Valid {
		rt := readTime.String
		a.ReadTime = &rt
	}
	return a, nil
}

func (s *sqliteStore) ListArticles(ctx context.Context) ([]api.Article, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqliteStore) GetArticle(ctx context.Context, id int) (api.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id=?`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Article{}, ErrNotFound
	}
	return a, err
}

func (s *sqliteStore) CreateArticle(ctx context.Context, a api.Article) (api.Article, error) {
	a.Tags = normalizeTags(a.Tags)
	tagsJSON, _ := json.Marshal(a.Tags)
	var readTime sql.NullString
	if a.ReadTime != nil {
		readTime = sql.NullString{String: *a.ReadTime, Valid: true}
	}
	var id any
	if a.ID != 0 {
		id = a.ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return api.Article{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO articles(`+articleColumns+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, a.Title, a.Author, a.Institution, a.Abstract, string(tagsJSON),
		a.Likes, a.Comments, a.Shares, a.Views, readTime, a.PublishDate, a.ImageURL, a.Content)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			err = ErrConflict
		}
		return api.Article{}, err
	}
	if a.ID == 0 {
		last, err := res.LastInsertId()
		if err != nil {
			return api.Article{}, err
		}
		a.ID = int(last)
	}
	if err := tx.Commit(); err != nil {
		return api.Article{}, err
	}
	return a, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (*sqliteStore, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteStore{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS articles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  institution TEXT NOT NULL,
  abstract TEXT NOT NULL,
  tags TEXT NOT NULL,
  likes INTEGER NOT NULL DEFAULT 0,
  comments INTEGER NOT NULL DEFAULT 0,
  shares INTEGER NOT NULL DEFAULT 0,
  views INTEGER NOT NULL DEFAULT 0,
  read_time TEXT,
  publish_date TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  content TEXT NOT NULL
);
`)
	return err
}
