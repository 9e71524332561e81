// Package gitrepo commits published output when it lives inside a git work tree. It shells out
// to the git binary.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Status is the subset of repository state the publisher cares about.
type Status struct {
	IsRepo bool   `json:"isRepo"`
	Root   string `json:"root,omitempty"`
	Branch string `json:"branch,omitempty"`
	Head   string `json:"head,omitempty"`
	// InProgress is true during a merge, rebase or cherry-pick.
	InProgress bool `json:"inProgress,omitempty"`
}

func GetStatus(ctx context.Context, dir string) (Status, error) {
	root, err := git(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		// Not being inside a repository is a normal answer, not a failure.
		return Status{IsRepo: false}, nil
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return Status{}, errors.New("git rev-parse returned empty root")
	}
	branch, _ := git(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	head, _ := git(ctx, dir, "rev-parse", "--short", "HEAD")
	gitDir, _ := git(ctx, dir, "rev-parse", "--absolute-git-dir")

	return Status{
		IsRepo:     true,
		Root:       root,
		Branch:     strings.TrimSpace(branch),
		Head:       strings.TrimSpace(head),
		InProgress: inProgress(strings.TrimSpace(gitDir)),
	}, nil
}

func inProgress(gitDir string) bool {
	if gitDir == "" {
		return false
	}
	for _, marker := range []string{"MERGE_HEAD", "rebase-merge", "rebase-apply", "CHERRY_PICK_HEAD"} {
		if exists(filepath.Join(gitDir, marker)) {
			return true
		}
	}
	return false
}

// CommitPaths stages paths (files or directories inside dir's repository) and commits them.
// committed is false when dir is not in a repository or nothing changed.
func CommitPaths(ctx context.Context, dir string, paths []string, message string) (committed bool, err error) {
	st, err := GetStatus(ctx, dir)
	if err != nil || !st.IsRepo {
		return false, err
	}
	if st.InProgress {
		return false, errors.New("git repo has an in-progress merge/rebase; resolve first")
	}
	if len(paths) == 0 {
		return false, nil
	}

	root := canonical(st.Root)
	args := []string{"add", "--"}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return false, err
		}
		rel, err := filepath.Rel(root, canonical(abs))
		if err != nil || strings.HasPrefix(rel, "..") {
			return false, fmt.Errorf("path is outside repository %s: %s", st.Root, p)
		}
		args = append(args, rel)
	}
	if _, err := git(ctx, root, args...); err != nil {
		return false, err
	}

	staged, err := git(ctx, root, "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(staged) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("folio: publish (%s)", time.Now().UTC().Format(time.RFC3339))
	}
	if _, err := git(ctx, root, "commit", "-m", msg); err != nil {
		return false, err
	}
	return true, nil
}

// canonical resolves symlinks (macOS temp dirs live under /var -> /private/var) so Rel works
// against the root git reports.
func canonical(p string) string {
	p = filepath.Clean(p)
	if v, err := filepath.EvalSymlinks(p); err == nil {
		return v
	}
	return p
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return string(out), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
