package portfolio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeMockup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want any
	}{
		{"image/shot.png", "image/shot.png"},
		{"  slides/deck  ", "slides/deck"},
		{"img1:a.png,img2:b.png", "img1:a.png,img2:b.png"},
		{"https://www.youtube.com/watch?v=x", "https://www.youtube.com/watch?v=x"},
		{"just words", "just words"},
		{`{"title": "T"}`, map[string]any{"title": "T"}},
		{`["a", "b"]`, []any{"a", "b"}},
		{map[string]any{"k": "v"}, map[string]any{"k": "v"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, normalizeMockup(tc.in)); diff != "" {
			t.Fatalf("normalizeMockup(%v) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"a", "b"}, normalizeTags(" a ,, b")); diff != "" {
		t.Fatalf("string tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x"}, normalizeTags([]any{" x ", "", 3})); diff != "" {
		t.Fatalf("list tags mismatch (-want +got):\n%s", diff)
	}
	if got := normalizeTags(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil tags, got %#v", got)
	}
}
