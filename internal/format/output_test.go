package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWrite_JSONAndYAML(t *testing.T) {
	t.Parallel()

	v := map[string]any{"kind": "skills", "ids": []int{2, 1}}

	var buf bytes.Buffer
	if err := Write(&buf, v, "json", false); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"ids":[2,1],"kind":"skills"}` {
		t.Fatalf("unexpected json: %s", got)
	}

	buf.Reset()
	if err := Write(&buf, v, "yaml", false); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "kind: skills") || !strings.Contains(out, "- 2") || strings.Index(out, "- 2") > strings.Index(out, "- 1") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
}

func TestWrite_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tbl := Table{Head: []string{"ID", "NAME"}, Body: [][]string{{"1", "React"}, {"7", "Next.js"}}}
	if err := Write(&buf, tbl, "table", false); err != nil {
		t.Fatalf("table: %v", err)
	}
	out := buf.String()
	for _, s := range []string{"ID", "NAME", "React", "Next.js"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in table output:\n%s", s, out)
		}
	}

	if err := Write(&buf, map[string]int{}, "table", false); err == nil {
		t.Fatalf("expected error for non-tabular value")
	}
	if err := Write(&buf, 1, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
