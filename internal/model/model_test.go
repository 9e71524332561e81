package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestID_DecodesNumbersAndNumericStrings(t *testing.T) {
	t.Parallel()

	cases := map[string]ID{
		`3`:     3,
		`"7"`:   7,
		`" 12"`: 12,
		`4.0`:   4,
		`null`:  0,
		`"abc"`: 0,
	}
	for in, want := range cases {
		var got ID
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if got != want {
			t.Fatalf("unmarshal %s: expected %d, got %d", in, want, got)
		}
	}
}

func TestInputID_RejectsWhatDecodingWouldCoerce(t *testing.T) {
	t.Parallel()

	valid := []struct {
		in   any
		want int
	}{
		{3.0, 3},
		{"7", 7},
		{" 12 ", 12},
		{json.Number("5"), 5},
		{9, 9},
	}
	for _, tc := range valid {
		got, ok, err := InputID(tc.in)
		if err != nil || !ok || got != tc.want {
			t.Fatalf("InputID(%#v): expected %d, got %d ok=%v err=%v", tc.in, tc.want, got, ok, err)
		}
	}

	for _, in := range []any{nil, "", "  "} {
		if _, ok, err := InputID(in); ok || err != nil {
			t.Fatalf("InputID(%#v): expected absent, got ok=%v err=%v", in, ok, err)
		}
	}

	for _, in := range []any{"abc", -4.0, 0.0, 2.5, "0", true, []any{1}} {
		if _, _, err := InputID(in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("InputID(%#v): expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestProject_ExtraFieldsRoundTrip(t *testing.T) {
	t.Parallel()

	in := `{"id":"2","title":"PostalMapper","category":"web","tags":["React"],"github_url":"#",` +
		`"mockup_type":"web","mockup_content":{"title":"Find Postal Details"},"confidential":false}`

	var p Project
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != 2 || p.Title != "PostalMapper" || p.Category != "web" {
		t.Fatalf("unexpected typed fields: %+v", p)
	}
	if p.Extra["mockup_type"] != "web" {
		t.Fatalf("expected mockup_type in Extra, got %#v", p.Extra)
	}
	if _, ok := p.Extra["title"]; ok {
		t.Fatalf("known key leaked into Extra: %#v", p.Extra)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)
	for _, want := range []string{`"mockup_type":"web"`, `"id":2`, `"mockup_content":{"title":"Find Postal Details"}`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
}

func TestSkill_ExtraDoesNotOverrideKnownFields(t *testing.T) {
	t.Parallel()

	s := Skill{ID: 1, Name: "Go", Category: "backend", Extra: map[string]any{"name": "shadow", "level": "expert"}}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Skill
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Name != "Go" {
		t.Fatalf("expected typed name to win, got %q", back.Name)
	}
	if back.Extra["level"] != "expert" {
		t.Fatalf("expected level extra, got %#v", back.Extra)
	}
}

func TestParseSortMode(t *testing.T) {
	t.Parallel()

	if m, err := ParseSortMode(" Date "); err != nil || m != SortByDate {
		t.Fatalf("expected date, got %q (%v)", m, err)
	}
	if _, err := ParseSortMode("title"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if got := NormalizeSortMode("title"); got != SortManual {
		t.Fatalf("expected manual fallback, got %q", got)
	}
	if got := NormalizeSortMode(""); got != SortManual {
		t.Fatalf("expected manual for empty, got %q", got)
	}
}

func TestParseDirection_Aliases(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"previous", "left", "UP"} {
		if d, err := ParseDirection(s); err != nil || d != Previous {
			t.Fatalf("%s: expected previous, got %v (%v)", s, d, err)
		}
	}
	for _, s := range []string{"next", "right", "Down"} {
		if d, err := ParseDirection(s); err != nil || d != Next {
			t.Fatalf("%s: expected next, got %v (%v)", s, d, err)
		}
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestKindSingular(t *testing.T) {
	t.Parallel()

	if KindProjects.Singular() != "project" || KindCertifications.Singular() != "certification" {
		t.Fatalf("unexpected singulars: %s %s", KindProjects.Singular(), KindCertifications.Singular())
	}
	if _, err := ParseKind("widgets"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
