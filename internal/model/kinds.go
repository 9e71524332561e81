package model

import "encoding/json"

type Project struct {
	ID             ID              `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Tags           []string        `json:"tags"`
	GithubURL      string          `json:"github_url"`
	LinkButtonText string          `json:"link_button_text,omitempty"`
	MockupContent  json.RawMessage `json:"mockup_content,omitempty"`
	Date           string          `json:"date,omitempty"`
	DemoURL        string          `json:"demo_url,omitempty"`
	DemoButtonText string          `json:"demo_button_text,omitempty"`
	Confidential   bool            `json:"confidential"`

	Extra map[string]any `json:"-"`
}

type projectFields Project

func (p Project) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(projectFields(p), p.Extra)
}

func (p *Project) UnmarshalJSON(b []byte) error {
	var f projectFields
	extra, err := unmarshalWithExtra(b, &f)
	if err != nil {
		return err
	}
	*p = Project(f)
	p.Extra = extra
	return nil
}

func (p Project) RecordID() int { return int(p.ID) }
func (p Project) WithID(id int) Project { p.ID = ID(id); return p }
func (p Project) RecordCategory() string { return p.Category }
func (p Project) RecordDate() string { return p.Date }
func (p Project) RecordLabel() string { return p.Title }

type Skill struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Category string `json:"category"`

	Extra map[string]any `json:"-"`
}

type skillFields Skill

func (s Skill) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(skillFields(s), s.Extra)
}

func (s *Skill) UnmarshalJSON(b []byte) error {
	var f skillFields
	extra, err := unmarshalWithExtra(b, &f)
	if err != nil {
		return err
	}
	*s = Skill(f)
	s.Extra = extra
	return nil
}

func (s Skill) RecordID() int { return int(s.ID) }
func (s Skill) WithID(id int) Skill { s.ID = ID(id); return s }
func (s Skill) RecordCategory() string { return s.Category }

// RecordDate is empty: skills carry no date, so date views keep their persisted order.
func (s Skill) RecordDate() string { return "" }
func (s Skill) RecordLabel() string { return s.Name }

type Certification struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Issuer   string `json:"issuer"`
	Category string `json:"category"`
	Date     string `json:"date"`
	URL      string `json:"url"`
	Image    string `json:"image"`

	Extra map[string]any `json:"-"`
}

type certificationFields Certification

func (c Certification) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(certificationFields(c), c.Extra)
}

func (c *Certification) UnmarshalJSON(b []byte) error {
	var f certificationFields
	extra, err := unmarshalWithExtra(b, &f)
	if err != nil {
		return err
	}
	*c = Certification(f)
	c.Extra = extra
	return nil
}

func (c Certification) RecordID() int { return int(c.ID) }
func (c Certification) WithID(id int) Certification { c.ID = ID(id); return c }
func (c Certification) RecordCategory() string { return c.Category }
func (c Certification) RecordDate() string { return c.Date }
func (c Certification) RecordLabel() string { return c.Name }
