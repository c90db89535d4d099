package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrSourceNotFound reports that no loader could locate the requested file.
var ErrSourceNotFound = errors.New("source not found")

// SourceLoader produces the raw program text stored under path.
type SourceLoader interface {
	Read(path string) (string, error)
}

// FileLoader reads programs from the filesystem. Relative paths are tried
// against the working directory first and then against each search path.
type FileLoader struct {
	SearchPaths []string
}

// NewFileLoader constructs a loader, dropping empty and duplicate search paths.
func NewFileLoader(searchPaths ...string) *FileLoader {
	seen := make(map[string]struct{}, len(searchPaths))
	unique := make([]string, 0, len(searchPaths))
	for _, sp := range searchPaths {
		sp = strings.TrimSpace(sp)
		if sp == "" {
			continue
		}
		clean := filepath.Clean(sp)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}
	return &FileLoader{SearchPaths: unique}
}

func (l *FileLoader) Read(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("loader: empty path")
	}
	for _, candidate := range l.candidates(p) {
		data, err := os.ReadFile(candidate)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("loader: read %s: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSourceNotFound, p)
}

func (l *FileLoader) candidates(p string) []string {
	if filepath.IsAbs(p) {
		return []string{p}
	}
	out := []string{p}
	for _, sp := range l.SearchPaths {
		out = append(out, filepath.Join(sp, p))
	}
	return out
}

// FSLoader reads programs from an fs.FS, such as the embedded stdlib. A
// leading Root directory is trimmed from requested paths.
type FSLoader struct {
	FS   fs.FS
	Root string
}

func (l *FSLoader) Read(p string) (string, error) {
	name := path.Clean(filepath.ToSlash(p))
	if root := strings.Trim(l.Root, "/"); root != "" {
		name = strings.TrimPrefix(name, root+"/")
	}
	data, err := fs.ReadFile(l.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, p)
		}
		return "", fmt.Errorf("loader: read %s: %w", p, err)
	}
	return string(data), nil
}

// ChainLoader returns the text from the first loader that succeeds.
type ChainLoader []SourceLoader

func (c ChainLoader) Read(p string) (string, error) {
	err := fmt.Errorf("%w: %s", ErrSourceNotFound, p)
	for _, loader := range c {
		if loader == nil {
			continue
		}
		text, loadErr := loader.Read(p)
		if loadErr == nil {
			return text, nil
		}
		err = loadErr
	}
	return "", err
}
