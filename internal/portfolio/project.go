package portfolio

import (
	"encoding/json"
	"strings"
	"time"
)

var mediaPrefixes = []string{"image/", "video/", "slides/", "img1:"}

// normalizeMockup decides how a string mockup is stored. Media references, YouTube links and plain
// text stay strings; a string holding valid JSON is stored as that JSON value.
func normalizeMockup(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	for _, p := range mediaPrefixes {
		if strings.HasPrefix(s, p) {
			return s
		}
	}
	if strings.Contains(s, "youtube.com/watch") || strings.Contains(s, "youtu.be/") {
		return s
	}
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		return parsed
	}
	return s
}

// normalizeTags accepts a comma separated string or a list and returns trimmed, non-empty tags.
func normalizeTags(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []any:
		for _, x := range t {
			if s, ok := x.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	out := []string{}
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// projectDoc prepares a project document for storage. New projects also get the defaults the
// public site expects.
func projectDoc(now func() time.Time) func(doc map[string]any, isNew bool) {
	return func(doc map[string]any, isNew bool) {
		if v, ok := doc["mockup_content"]; ok && v != nil {
			doc["mockup_content"] = normalizeMockup(v)
		}
		if v, ok := doc["tags"]; ok && v != nil {
			doc["tags"] = normalizeTags(v)
		}
		if !isNew {
			return
		}
		if v, ok := doc["tags"]; !ok || v == nil {
			doc["tags"] = []string{}
		}
		// An explicit empty category keeps the project uncategorized.
		if _, ok := doc["category"]; !ok {
			doc["category"] = "web"
		}
		setDefault(doc, "github_url", "#")
		setDefault(doc, "date", now().Format("2006-01-02"))
		setDefault(doc, "link_button_text", "GitHub")
		setDefault(doc, "demo_button_text", "Demo")
	}
}

func setDefault(doc map[string]any, key, value string) {
	if s, ok := doc[key].(string); ok && strings.TrimSpace(s) != "" {
		return
	}
	doc[key] = value
}
