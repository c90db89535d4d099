package driver

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// GitLoader reads program files as they exist at one revision of a git
// repository. Repository is a local path or a remote URL; remote
// repositories are cloned into memory on first use.
type GitLoader struct {
	Repository string
	Revision   string

	commit *object.Commit
}

// NewGitLoader returns a loader for repository at revision (HEAD when empty).
func NewGitLoader(repository, revision string) *GitLoader {
	return &GitLoader{Repository: strings.TrimSpace(repository), Revision: strings.TrimSpace(revision)}
}

func (l *GitLoader) Read(p string) (string, error) {
	commit, err := l.resolve()
	if err != nil {
		return "", err
	}
	name := strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/")
	file, err := commit.File(name)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", fmt.Errorf("%w: %s at %s", ErrSourceNotFound, p, l.revision())
		}
		return "", fmt.Errorf("git: read %s: %w", p, err)
	}
	return file.Contents()
}

// Commit returns the hash the loader reads from.
func (l *GitLoader) Commit() (string, error) {
	commit, err := l.resolve()
	if err != nil {
		return "", err
	}
	return commit.Hash.String(), nil
}

func (l *GitLoader) revision() string {
	if l.Revision == "" {
		return "HEAD"
	}
	return l.Revision
}

func (l *GitLoader) resolve() (*object.Commit, error) {
	if l.commit != nil {
		return l.commit, nil
	}
	if l.Repository == "" {
		return nil, fmt.Errorf("git: repository location is required")
	}
	repo, err := openRepository(l.Repository)
	if err != nil {
		return nil, err
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(l.revision()))
	if err != nil {
		return nil, fmt.Errorf("git: resolve revision %s: %w", l.revision(), err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("git: load commit %s: %w", hash, err)
	}
	l.commit = commit
	return commit, nil
}

func openRepository(location string) (*git.Repository, error) {
	if isRemoteRepository(location) {
		repo, err := git.Clone(memory.NewStorage(), nil, &git.CloneOptions{URL: location})
		if err != nil {
			return nil, fmt.Errorf("git clone %s: %w", location, err)
		}
		return repo, nil
	}
	repo, err := git.PlainOpenWithOptions(location, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("git open %s: %w", location, err)
	}
	return repo, nil
}

func isRemoteRepository(location string) bool {
	return strings.Contains(location, "://") || strings.HasPrefix(location, "git@")
}
