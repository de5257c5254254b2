package domain

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

const (
	DefaultCulture       = "fa"
	MaxLocalizedTextSize = 1024
)

// SupportedCultures are the culture codes a LocalizedText may carry.
var SupportedCultures = []string{"ar", "en", "fa", "tr"}

// LocalizedText maps culture codes to trimmed, non-empty text. The zero value
// means "no text" and is used for optional fields.
type LocalizedText struct {
	values map[string]string
}

// NewLocalizedText builds a single-culture text. An empty culture means
// DefaultCulture.
func NewLocalizedText(value, culture string) (LocalizedText, error) {
	if culture == "" {
		culture = DefaultCulture
	}
	return LocalizedTextFromMap(map[string]string{culture: value})
}

// LocalizedTextFromMap normalizes culture codes, trims and clamps values and
// drops empty ones. It fails if a culture is unsupported or nothing is left.
func LocalizedTextFromMap(m map[string]string) (LocalizedText, error) {
	if len(m) == 0 {
		return LocalizedText{}, newValidation("empty_localized_text", "localized text requires at least one value")
	}

	values := make(map[string]string, len(m))
	for culture, value := range m {
		code, err := NormalizeCulture(culture)
		if err != nil {
			return LocalizedText{}, err
		}
		v := clampText(value)
		if v == "" {
			continue
		}
		values[code] = v
	}

	if len(values) == 0 {
		return LocalizedText{}, newValidation("empty_localized_text", "localized text requires at least one non-empty value")
	}
	return LocalizedText{values: values}, nil
}

// MustLocalizedText is for literals in tests and fixtures.
func MustLocalizedText(value, culture string) LocalizedText {
	t, err := NewLocalizedText(value, culture)
	if err != nil {
		panic(err)
	}
	return t
}

// NormalizeCulture parses culture as a BCP 47 tag and reduces regional forms
// such as "fa-IR" or "en_US" to their language. Malformed tags and tags
// without an explicit language are rejected.
func NormalizeCulture(culture string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(culture), "_", "-"))
	if err != nil {
		return "", newValidation("unsupported_culture", "malformed culture %q", culture)
	}
	base, confidence := tag.Base()
	if confidence != language.Exact {
		return "", newValidation("unsupported_culture", "unsupported culture %q", culture)
	}
	code := base.String()
	for _, c := range SupportedCultures {
		if c == code {
			return code, nil
		}
	}
	return "", newValidation("unsupported_culture", "unsupported culture %q", culture)
}

func clampText(value string) string {
	v := strings.TrimSpace(value)
	if utf8.RuneCountInString(v) <= MaxLocalizedTextSize {
		return v
	}
	runes := []rune(v)
	return strings.TrimSpace(string(runes[:MaxLocalizedTextSize]))
}

func (t LocalizedText) IsZero() bool {
	return len(t.values) == 0
}

func (t LocalizedText) Value(culture string) (string, bool) {
	code, err := NormalizeCulture(culture)
	if err != nil {
		return "", false
	}
	v, ok := t.values[code]
	return v, ok
}

// GetValueOrDefault returns the requested culture, then the fallback culture,
// then the value of the lexicographically smallest culture code present.
// An empty fallback means DefaultCulture.
func (t LocalizedText) GetValueOrDefault(culture, fallback string) string {
	if v, ok := t.Value(culture); ok {
		return v
	}
	if fallback == "" {
		fallback = DefaultCulture
	}
	if v, ok := t.Value(fallback); ok {
		return v
	}
	cultures := t.Cultures()
	if len(cultures) == 0 {
		return ""
	}
	return t.values[cultures[0]]
}

// WithValue returns a copy with culture set to value. An empty value removes
// the culture, which fails if it was the last one.
func (t LocalizedText) WithValue(culture, value string) (LocalizedText, error) {
	m := t.Map()
	code, err := NormalizeCulture(culture)
	if err != nil {
		return LocalizedText{}, err
	}
	m[code] = value
	return LocalizedTextFromMap(m)
}

// Cultures returns the present culture codes in sorted order.
func (t LocalizedText) Cultures() []string {
	out := make([]string, 0, len(t.values))
	for c := range t.values {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Map returns a copy of the underlying values.
func (t LocalizedText) Map() map[string]string {
	out := make(map[string]string, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

func (t LocalizedText) Equal(other LocalizedText) bool {
	if len(t.values) != len(other.values) {
		return false
	}
	for k, v := range t.values {
		if ov, ok := other.values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if t.values == nil {
		return []byte("null"), nil
	}
	return json.Marshal(t.values)
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m == nil {
		*t = LocalizedText{}
		return nil
	}
	parsed, err := LocalizedTextFromMap(m)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
