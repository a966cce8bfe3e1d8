package settings

import (
	"encoding/json"
	"strings"
)

// Settings is the site identity and theme shown by the storefront.
type Settings struct {
	Title   string `json:"title"`
	Tag     string `json:"tag"`
	Primary string `json:"primary"`
	BG      string `json:"bg"`
	Text    string `json:"text"`
	Logo    string `json:"logo"`
}

// Defaults returns the built-in settings used when nothing is stored.
func Defaults() Settings {
	return Settings{
		Title:   "ShoeStore",
		Tag:     "Modern shoes shop",
		Primary: "#2563eb",
		BG:      "#f6f8fb",
		Text:    "#0f172a",
		Logo:    "",
	}
}

// fields pairs each JSON name with its target in s, in declaration order.
func (s *Settings) fields() []struct {
	name string
	ptr  *string
} {
	return []struct {
		name string
		ptr  *string
	}{
		{"title", &s.Title},
		{"tag", &s.Tag},
		{"primary", &s.Primary},
		{"bg", &s.BG},
		{"text", &s.Text},
		{"logo", &s.Logo},
	}
}

// WithDefaults replaces every blank field with its default.
func (s Settings) WithDefaults() Settings {
	out := s
	def := Defaults()
	defFields := def.fields()
	for i, f := range out.fields() {
		if strings.TrimSpace(*f.ptr) == "" {
			*f.ptr = *defFields[i].ptr
		}
	}
	return out
}

// Merge overlays a stored document on the defaults. A stored field wins only
// when it is present, non-null and a string.
func Merge(stored map[string]json.RawMessage) Settings {
	out := Defaults()
	for _, f := range out.fields() {
		raw, ok := stored[f.name]
		if !ok {
			continue
		}
		var value *string
		if err := json.Unmarshal(raw, &value); err != nil || value == nil {
			continue
		}
		*f.ptr = *value
	}
	return out
}
