package naming

// DefaultPattern is used when a selected preset key is not present in the
// registry (e.g. the preset catalog has not finished loading yet).
// Placeholder tokens are resolved server-side; the client treats the
// template as an opaque string.
const DefaultPattern = "{show} - S{season:02d}E{episode:02d} - {title}"

// Source identifies where the active naming template comes from.
type Source int

const (
	SourcePreset Source = iota
	SourceCustom
)

// Selection is the active naming template choice: either a server-defined
// preset (by key) or free-form custom text. The two variants are mutually
// exclusive, so "custom flag set but preset still authoritative" cannot be
// represented.
type Selection struct {
	source Source
	preset string
	custom string
}

// PresetSelection selects a server-defined preset by key.
func PresetSelection(key string) Selection {
	return Selection{source: SourcePreset, preset: key}
}

// CustomSelection selects free-form template text.
func CustomSelection(text string) Selection {
	return Selection{source: SourceCustom, custom: text}
}

// Source returns which variant this selection holds.
func (s Selection) Source() Source {
	return s.source
}

// PresetKey returns the selected preset key, or "" for custom selections.
func (s Selection) PresetKey() string {
	if s.source != SourcePreset {
		return ""
	}
	return s.preset
}

// Resolve produces the effective pattern string. Custom text always wins.
// A preset key that is missing from the registry falls back to
// DefaultPattern. No placeholder syntax validation happens here; the
// server owns template parsing.
func (s Selection) Resolve(registry map[string]string) string {
	if s.source == SourceCustom {
		return s.custom
	}
	if pattern, ok := registry[s.preset]; ok {
		return pattern
	}
	return DefaultPattern
}
