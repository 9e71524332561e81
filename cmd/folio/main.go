package main

import (
	"os"
	"strings"

	"folio/internal/cli"
	"folio/internal/model"
)

// singularKind maps "project" to "projects" and so on.
func singularKind(s string) (model.Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range model.Kinds() {
		if s == k.Singular() {
			return k, true
		}
	}
	return "", false
}

// rewriteRecordLookupArgs makes `folio project 3` work like `folio projects get 3`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (`folio --dir data project 3`), so the first positional token
// is located rather than assuming argv[1].
func rewriteRecordLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}
	valueFlags := map[string]bool{
		"--dir":       true,
		"--config":    true,
		"--format":    true,
		"--log-level": true,
	}

	rewrite := func(i int) []string {
		k, ok := singularKind(argv[i])
		if !ok || i+1 >= len(argv) {
			return argv
		}
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, string(k), "get")
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				return rewrite(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		return rewrite(i)
	}
	return argv
}

func main() {
	os.Args = rewriteRecordLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
