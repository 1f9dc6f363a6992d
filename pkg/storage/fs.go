package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/ruslano69/sqlreports/pkg/report"
)

// FS - отчеты в локальном каталоге
type FS struct {
	root string
	fsys fs.FS
}

// NewFS создает хранилище поверх каталога dir
func NewFS(dir string) *FS {
	return &FS{root: dir, fsys: os.DirFS(dir)}
}

// Load читает определение; пути с ".." или абсолютные не принимаются
func (s *FS) Load(ctx context.Context, name string) (*report.Definition, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, notFound(name)
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("failed to read report %s: %w", name, err)
	}

	return report.ParseDefinition(name, data)
}

// List обходит каталог рекурсивно
func (s *FS) List(ctx context.Context) ([]string, error) {
	var names []string
	err := fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && d.Name()[0] == '.' {
				return fs.SkipDir
			}
			return nil
		}
		if report.IsDefinitionFile(path) {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports in %s: %w", s.root, err)
	}

	sort.Strings(names)
	return names, nil
}
