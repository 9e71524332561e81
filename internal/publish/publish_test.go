package publish

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"folio/internal/model"
	"folio/internal/portfolio"

	"github.com/sebdah/goldie/v2"
)

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderListingMarkdown_Golden(t *testing.T) {
	t.Parallel()

	l := portfolio.Listing{
		Kind:   model.KindProjects,
		SortBy: model.SortByDate,
		Groups: []portfolio.EntryGroup{
			{Category: "Web", Entries: []portfolio.Entry{
				{ID: 2, Label: "Folio", Category: "Web", Date: "2025-03-14"},
				{ID: 1, Label: "Done Today", Category: "Web"},
			}},
			{Category: "Mobile", Entries: []portfolio.Entry{}},
		},
		Loose: []portfolio.Entry{{ID: 4}},
		Total: 3,
	}
	golden(t).Assert(t, "projects_listing", []byte(RenderListingMarkdown(l)))
}

func TestRecordMarkdown_ProjectGolden(t *testing.T) {
	t.Parallel()

	p := model.Project{
		ID:             2,
		Title:          "Folio",
		Description:    "Manage portfolio content.",
		Category:       "Web",
		Tags:           []string{"go", "cobra"},
		GithubURL:      "https://github.com/example/folio",
		LinkButtonText: "GitHub",
		MockupContent:  json.RawMessage(`{"commands":["$ folio"]}`),
		Date:           "2025-03-14",
		DemoURL:        "#",
		DemoButtonText: "Demo",
	}
	e := portfolio.Entry{ID: 2, Label: p.Title, Category: p.Category, Date: p.Date, Record: p}
	golden(t).Assert(t, "project_record", []byte(RecordMarkdown(e)))
}

func TestRenderIndexMarkdown_Golden(t *testing.T) {
	t.Parallel()

	md := RenderIndexMarkdown([]portfolio.Listing{
		{Kind: model.KindProjects, Total: 3},
		{Kind: model.KindSkills, Total: 0},
	})
	golden(t).Assert(t, "index", []byte(md))
}

func TestRecordMarkdown_SkillAndCertification(t *testing.T) {
	t.Parallel()

	md := RecordMarkdown(portfolio.Entry{ID: 1, Label: "Go", Category: "backend", Record: model.Skill{ID: 1, Name: "Go", Icon: "code"}})
	if !strings.Contains(md, "- Icon: code") {
		t.Fatalf("expected icon line, got:\n%s", md)
	}
	md = RecordMarkdown(portfolio.Entry{ID: 3, Label: "CKA", Record: model.Certification{ID: 3, Name: "CKA", Issuer: "CNCF"}})
	if !strings.Contains(md, "- Issuer: CNCF") || strings.Contains(md, "- Category:") {
		t.Fatalf("unexpected certification page:\n%s", md)
	}
}

func TestWriteSite_WritesPagesAndRespectsOverwrite(t *testing.T) {
	t.Parallel()

	svc, err := portfolio.Open(context.Background(), t.TempDir(), portfolio.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.Skills.Add(model.Skill{Name: "Go", Category: "backend"}, nil); err != nil {
		t.Fatalf("add skill: %v", err)
	}

	to := t.TempDir()
	res, err := WriteSite(svc.Catalogs(), to, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteSite: %v", err)
	}
	// index + three listings + one skill page.
	if len(res.Written) != 5 {
		t.Fatalf("expected 5 written files; got %d (%v)", len(res.Written), res.Written)
	}
	for _, p := range []string{"index.md", "skills.md", filepath.Join("skills", "1.md")} {
		if _, err := os.Stat(filepath.Join(to, p)); err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
	}

	if _, err := WriteSite(svc.Catalogs(), to, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected overwrite error, got %v", err)
	}
	if _, err := WriteSite(svc.Catalogs(), to, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("WriteSite overwrite: %v", err)
	}
	if _, err := WriteSite(svc.Catalogs(), " ", WriteOptions{}); err == nil {
		t.Fatalf("expected error for empty destination")
	}
}
