package publish

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"folio/internal/model"
	"folio/internal/portfolio"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KindTitle renders a kind for headings, e.g. "Certifications".
func KindTitle(k model.Kind) string {
	return cases.Title(language.English).String(string(k))
}

// RenderListingMarkdown renders one kind's grouped listing as a markdown page.
func RenderListingMarkdown(l portfolio.Listing) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + KindTitle(l.Kind))
	writeLn("")
	writeLn("Sorted by: " + string(l.SortBy))

	for _, g := range l.Groups {
		writeLn("")
		writeLn("## " + g.Category)
		writeLn("")
		if len(g.Entries) == 0 {
			writeLn("_No entries._")
			continue
		}
		for _, e := range g.Entries {
			writeLn(entryLine(l.Kind, e))
		}
	}
	if len(l.Loose) > 0 {
		writeLn("")
		writeLn("## Other")
		writeLn("")
		for _, e := range l.Loose {
			writeLn(entryLine(l.Kind, e))
		}
	}
	return buf.String()
}

func entryLine(k model.Kind, e portfolio.Entry) string {
	line := fmt.Sprintf("- [%s](%s/%d.md)", label(e), k, e.ID)
	if d := strings.TrimSpace(e.Date); d != "" {
		line += " (" + d + ")"
	}
	return line
}

func label(e portfolio.Entry) string {
	if s := strings.TrimSpace(e.Label); s != "" {
		return s
	}
	return "#" + strconv.Itoa(e.ID)
}

// RecordMarkdown renders a single record page.
func RecordMarkdown(e portfolio.Entry) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}
	field := func(name, v string) {
		if v = strings.TrimSpace(v); v != "" {
			writeLn("- " + name + ": " + v)
		}
	}

	writeLn("# " + label(e))
	writeLn("")
	writeLn("- ID: " + strconv.Itoa(e.ID))
	field("Category", e.Category)
	field("Date", e.Date)

	switch r := e.Record.(type) {
	case model.Project:
		field("Tags", strings.Join(r.Tags, ", "))
		field("Link", link(r.LinkButtonText, r.GithubURL))
		field("Demo", link(r.DemoButtonText, r.DemoURL))
		if r.Confidential {
			writeLn("- Confidential: true")
		}
		if desc := strings.TrimSpace(r.Description); desc != "" {
			writeLn("")
			writeLn("## Description")
			writeLn("")
			writeLn(desc)
		}
		if mock := mockupMarkdown(r.MockupContent); mock != "" {
			writeLn("")
			writeLn("## Mockup")
			writeLn("")
			writeLn(mock)
		}
	case model.Skill:
		field("Icon", r.Icon)
	case model.Certification:
		field("Issuer", r.Issuer)
		field("URL", r.URL)
		field("Image", r.Image)
	}
	return buf.String()
}

func link(text, url string) string {
	url = strings.TrimSpace(url)
	if url == "" || url == "#" {
		return ""
	}
	if text = strings.TrimSpace(text); text == "" {
		text = url
	}
	return "[" + text + "](" + url + ")"
}

// mockupMarkdown shows string mockups inline and structured ones as an indented JSON block.
func mockupMarkdown(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return ""
	}
	return "```json\n" + out.String() + "\n```"
}

// RenderIndexMarkdown renders the site index linking every kind page.
func RenderIndexMarkdown(listings []portfolio.Listing) string {
	var buf bytes.Buffer
	buf.WriteString("# Portfolio\n\n")
	for _, l := range listings {
		fmt.Fprintf(&buf, "- [%s](%s.md) (%d)\n", KindTitle(l.Kind), l.Kind, l.Total)
	}
	return buf.String()
}
