// Package catalogstore keeps module catalog documents in blob storage so that
// the CLI and the daemon can share one published catalog.
package catalogstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spcalc/spcalc/pkg/catalog"
	"github.com/spcalc/spcalc/pkg/config"
)

// ErrNotFound is returned when a named catalog does not exist in the store.
var ErrNotFound = errors.New("catalog not found")

// Store abstracts blob storage for catalog documents.
type Store interface {
	PutCatalog(ctx context.Context, name string, data []byte) error
	GetCatalog(ctx context.Context, name string) ([]byte, error)
}

// objectKey is the layout shared by every backend.
func objectKey(name string) string {
	return "catalogs/" + strings.TrimSuffix(name, ".json") + ".json"
}

// LocalStore implements Store using the local filesystem.
// Useful for development and testing.
type LocalStore struct {
	BaseDir string
}

// NewLocalStore creates a LocalStore rooted at the given directory.
func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{BaseDir: baseDir}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(objectKey(name)))
}

// PutCatalog stores a catalog document.
func (s *LocalStore) PutCatalog(ctx context.Context, name string, data []byte) error {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetCatalog retrieves a catalog document.
func (s *LocalStore) GetCatalog(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}

// Open returns the Store for a catalog config. The file and postgres sources
// have no blob store and return an error.
func Open(ctx context.Context, cfg config.CatalogConfig) (Store, error) {
	switch cfg.Source {
	case config.SourceLocal:
		dir := cfg.BaseDir
		if dir == "" {
			dir = config.CatalogDir()
		}
		return NewLocalStore(dir), nil
	case config.SourceS3:
		return NewS3Store(ctx, S3Config{
			Bucket:   cfg.Bucket,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
			// Static keys are optional; the default chain covers IAM roles and profiles.
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
	case config.SourceGCS:
		return NewGCSStore(ctx, cfg.Bucket)
	default:
		return nil, fmt.Errorf("catalog source %q has no blob store", cfg.Source)
	}
}

// Load fetches and parses a named catalog.
func Load(ctx context.Context, s Store, name string) (*catalog.Catalog, error) {
	data, err := s.GetCatalog(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get catalog %s: %w", name, err)
	}
	return catalog.Parse(data)
}

// Publish stores a parsed catalog under name in its canonical JSON form.
func Publish(ctx context.Context, s Store, name string, c *catalog.Catalog) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	return s.PutCatalog(ctx, name, data)
}
