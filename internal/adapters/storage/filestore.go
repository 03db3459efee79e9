// Package storage provides the durable key-value store backing the
// collection. Each key is one JSON document under the data directory;
// writes go through a temp file and rename so a crash never leaves a
// half-written snapshot. Session-scoped keys live in a subdirectory
// that is wiped on startup.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

const (
	collectionFile   = "quotes.json"
	lastCategoryFile = "last_category.json"
	lastViewedFile   = "last_viewed.json"
	sessionDirName   = "session"
)

// FileStore implements ports.CollectionStore on the local filesystem.
type FileStore struct {
	dir        string
	sessionDir string
	logger     *slog.Logger
}

// Config contains the settings for the file store.
type Config struct {
	// Dir is the data directory. Created if missing. Required.
	Dir string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// New creates the store, ensures the data directory exists, and
// clears any session state left over from a previous run.
func New(cfg Config) (*FileStore, error) {
	if cfg.Dir == "" {
		return nil, errors.New("storage: Config.Dir is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessionDir := filepath.Join(cfg.Dir, sessionDirName)

	if err := os.RemoveAll(sessionDir); err != nil {
		return nil, fmt.Errorf("clearing session state: %w", err)
	}

	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &FileStore{
		dir:        cfg.Dir,
		sessionDir: sessionDir,
		logger:     logger,
	}, nil
}

// LoadCollection retrieves the persisted collection snapshot.
func (s *FileStore) LoadCollection(ctx context.Context) ([]domain.Quote, error) {
	var quotes []domain.Quote
	if err := s.read(ctx, filepath.Join(s.dir, collectionFile), &quotes); err != nil {
		return nil, err
	}

	return quotes, nil
}

// SaveCollection replaces the persisted collection snapshot.
func (s *FileStore) SaveCollection(ctx context.Context, quotes []domain.Quote) error {
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	return s.write(ctx, filepath.Join(s.dir, collectionFile), quotes)
}

// LoadLastCategory retrieves the most recently selected category.
func (s *FileStore) LoadLastCategory(ctx context.Context) (string, error) {
	var category string
	if err := s.read(ctx, filepath.Join(s.dir, lastCategoryFile), &category); err != nil {
		return "", err
	}

	return category, nil
}

// SaveLastCategory records the most recently selected category.
func (s *FileStore) SaveLastCategory(ctx context.Context, category string) error {
	return s.write(ctx, filepath.Join(s.dir, lastCategoryFile), category)
}

// LoadLastViewed retrieves the last quote displayed this session.
func (s *FileStore) LoadLastViewed(ctx context.Context) (*domain.Quote, error) {
	var quote domain.Quote
	if err := s.read(ctx, filepath.Join(s.sessionDir, lastViewedFile), &quote); err != nil {
		return nil, err
	}

	return &quote, nil
}

// SaveLastViewed records the last quote displayed this session.
func (s *FileStore) SaveLastViewed(ctx context.Context, quote domain.Quote) error {
	return s.write(ctx, filepath.Join(s.sessionDir, lastViewedFile), quote)
}

// Name identifies the store in health check responses.
func (s *FileStore) Name() string {
	return "store"
}

// Check reports whether the data directory is still reachable.
func (s *FileStore) Check(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unreachable: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("data path %q is not a directory", s.dir)
	}

	return nil
}

func (s *FileStore) read(ctx context.Context, path string, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewNotFoundError("entry", filepath.Base(path))
		}

		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}

	return nil
}

func (s *FileStore) write(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}

	return nil
}
