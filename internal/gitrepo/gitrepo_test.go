package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %v: %v\n%s", name, args, err, out)
	}
	return string(out)
}

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	repo := t.TempDir()
	run(t, repo, "git", "init")
	run(t, repo, "git", "config", "user.email", "test@example.com")
	run(t, repo, "git", "config", "user.name", "Test")
	return repo
}

func TestGetStatus_NonRepo(t *testing.T) {
	st, err := GetStatus(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.IsRepo {
		t.Fatalf("expected non-repo status")
	}
}

func TestCommitPaths_NonRepoIsNoop(t *testing.T) {
	committed, err := CommitPaths(context.Background(), t.TempDir(), []string{"x"}, "")
	if err != nil || committed {
		t.Fatalf("expected no-op outside a repo; committed=%v err=%v", committed, err)
	}
}

func TestCommitPaths_CommitsOnlyNamedPaths(t *testing.T) {
	ctx := context.Background()
	repo := initRepo(t)

	site := filepath.Join(repo, "site")
	if err := os.MkdirAll(site, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(site, "index.md"), []byte("# Portfolio\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(repo, "notes.txt"), []byte("keep out\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	committed, err := CommitPaths(ctx, site, []string{site}, "publish")
	if err != nil {
		t.Fatalf("CommitPaths: %v", err)
	}
	if !committed {
		t.Fatalf("expected a commit")
	}
	files := run(t, repo, "git", "show", "--name-only", "--pretty=format:", "HEAD")
	if !strings.Contains(files, "site/index.md") || strings.Contains(files, "notes.txt") {
		t.Fatalf("unexpected committed files:\n%s", files)
	}

	committed, err = CommitPaths(ctx, site, []string{site}, "publish again")
	if err != nil {
		t.Fatalf("CommitPaths: %v", err)
	}
	if committed {
		t.Fatalf("expected nothing to commit on unchanged output")
	}

	st, err := GetStatus(ctx, site)
	if err != nil || !st.IsRepo || st.Head == "" {
		t.Fatalf("unexpected status %+v err=%v", st, err)
	}
}
