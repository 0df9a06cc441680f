package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

var ErrEmptyPath = errors.New("catalog: empty catalog path")

// Source supplies the nested catalog document.
type Source interface {
	Load(ctx context.Context) (*models.Catalog, error)
}

// Parse decodes a catalog document.
func Parse(r io.Reader) (*models.Catalog, error) {
	var c models.Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return &c, nil
}

// FileSource reads the static JSON catalog shipped with a deployment.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*models.Catalog, error) {
	if s.Path == "" {
		return nil, ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", s.Path, err)
	}
	defer f.Close()
	return Parse(f)
}

// StaticSource serves an in-memory document.
type StaticSource struct {
	Catalog *models.Catalog
}

func (s StaticSource) Load(context.Context) (*models.Catalog, error) {
	if s.Catalog == nil {
		return &models.Catalog{}, nil
	}
	return s.Catalog, nil
}
