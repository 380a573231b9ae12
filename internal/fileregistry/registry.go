package fileregistry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dastbal/codekb/internal/hasher"
	"github.com/dastbal/codekb/internal/paths"
	"github.com/dastbal/codekb/internal/store"
	"github.com/dastbal/codekb/pkg/types"
)

// Registry wraps a Store with the change-detection contract of
// spec.md section 4.1.
type Registry struct {
	store store.Store
}

// New returns a Registry backed by s.
func New(s store.Store) *Registry {
	return &Registry{store: s}
}

// IsChanged reports whether path is absent from the registry, its
// stored hash differs from the hash of its current on-disk content, or
// the file no longer exists — in every such case the caller should
// treat it as needing attention.
func (r *Registry) IsChanged(ctx context.Context, root, path string) (bool, error) {
	content, err := os.ReadFile(fullPath(root, path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	existing, err := r.store.GetFile(ctx, path)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("lookup file %s: %w", path, err)
	}

	return existing.Hash != hasher.Hash(content), nil
}

// Update re-reads path, recomputes its hash, and upserts
// {path, hash, now, skeleton}.
func (r *Registry) Update(ctx context.Context, root, path string, skeleton *types.Skeleton) error {
	content, err := os.ReadFile(fullPath(root, path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	file := &types.File{
		Path:     paths.ToSlash(path),
		Hash:     hasher.Hash(content),
		Skeleton: skeleton,
	}
	return r.store.UpsertFile(ctx, file)
}

// Skeleton returns the stored skeleton for path, or nil if there is
// none — a NotFound condition per spec section 7, not an error.
func (r *Registry) Skeleton(ctx context.Context, path string) (*types.Skeleton, error) {
	file, err := r.store.GetFile(ctx, path)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup file %s: %w", path, err)
	}
	return file.Skeleton, nil
}

func fullPath(root, relPath string) string {
	return filepath.Join(root, filepath.FromSlash(relPath))
}
