// Package gitctx describes the git state of the content tree so build logs and validate
// reports say which revision a manifest was produced from.
package gitctx

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Revision is a minimal view of the repository holding the content tree.
type Revision struct {
	SHA    string `json:"sha"`
	Branch string `json:"branch,omitempty"`
	// Modified lists changed or untracked files under the content root, relative to it.
	Modified []string `json:"modified,omitempty"`
}

// Dirty reports whether the content tree differs from HEAD.
func (r *Revision) Dirty() bool {
	return r != nil && len(r.Modified) > 0
}

// Short returns the first 8 characters of the commit SHA.
func (r *Revision) Short() string {
	if r == nil {
		return ""
	}
	if len(r.SHA) > 8 {
		return r.SHA[:8]
	}
	return r.SHA
}

// Describe returns the revision of the repository containing contentRoot.
// Returns nil, nil when contentRoot is not inside a git repository or it has no commits.
func Describe(contentRoot string) (*Revision, error) {
	abs, err := filepath.Abs(contentRoot)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		// unborn branch
		return nil, nil
	}
	rev := &Revision{SHA: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		// bare repository
		return rev, nil
	}
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}
	prefix, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil {
		return nil, err
	}
	prefix = filepath.ToSlash(prefix)
	for path, s := range status {
		if s.Staging == git.Unmodified && s.Worktree == git.Unmodified {
			continue
		}
		if rel, ok := under(filepath.ToSlash(path), prefix); ok {
			rev.Modified = append(rev.Modified, rel)
		}
	}
	sort.Strings(rev.Modified)
	return rev, nil
}

// under reports whether path lies inside dir and returns it relative to dir.
func under(path, dir string) (string, bool) {
	if dir == "." || dir == "" {
		return path, true
	}
	if rest, ok := strings.CutPrefix(path, dir+"/"); ok {
		return rest, true
	}
	return "", false
}
