package projection

import (
	"maps"
	"sort"
	"strconv"
	"strings"
)

// Image is an image attached to the visible text by a formatter.
type Image struct {
	Target string
	Data   []byte
}

// Attributes are the visual attributes of a run of visible text.
// The zero value is plain body text.
type Attributes struct {
	Bold       bool
	Italic     bool
	Code       bool
	Color      string
	Background string
	// FontScale multiplies the body font size; zero means 1.
	FontScale float64
	Indent    int
	Image     *Image
	Extra     map[string]string
}

// Clone returns a copy that can be modified without affecting a.
func (a Attributes) Clone() Attributes {
	out := a
	if a.Extra != nil {
		out.Extra = maps.Clone(a.Extra)
	}
	return out
}

// Set stores an extension attribute.
func (a *Attributes) Set(key, value string) {
	if a.Extra == nil {
		a.Extra = make(map[string]string)
	}
	a.Extra[key] = value
}

// Get returns an extension attribute.
func (a Attributes) Get(key string) (string, bool) {
	v, ok := a.Extra[key]
	return v, ok
}

// Scale returns the effective font scale.
func (a Attributes) Scale() float64 {
	if a.FontScale == 0 {
		return 1
	}
	return a.FontScale
}

// Equal reports whether a and b describe the same formatting.
func (a Attributes) Equal(b Attributes) bool {
	if a.Bold != b.Bold || a.Italic != b.Italic || a.Code != b.Code ||
		a.Color != b.Color || a.Background != b.Background ||
		a.Scale() != b.Scale() || a.Indent != b.Indent {
		return false
	}
	if (a.Image == nil) != (b.Image == nil) {
		return false
	}
	if a.Image != nil && a.Image.Target != b.Image.Target {
		return false
	}
	return maps.Equal(a.Extra, b.Extra)
}

// IsPlain reports whether a carries no formatting at all.
func (a Attributes) IsPlain() bool {
	return a.Equal(Attributes{})
}

func (a Attributes) String() string {
	var parts []string
	if a.Bold {
		parts = append(parts, "bold")
	}
	if a.Italic {
		parts = append(parts, "italic")
	}
	if a.Code {
		parts = append(parts, "code")
	}
	if a.Color != "" {
		parts = append(parts, "color="+a.Color)
	}
	if a.Background != "" {
		parts = append(parts, "background="+a.Background)
	}
	if a.Scale() != 1 {
		parts = append(parts, "scale="+strconv.FormatFloat(a.Scale(), 'g', -1, 64))
	}
	if a.Indent != 0 {
		parts = append(parts, "indent="+strconv.Itoa(a.Indent))
	}
	if a.Image != nil {
		parts = append(parts, "image="+a.Image.Target)
	}
	keys := make([]string, 0, len(a.Extra))
	for k := range a.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+a.Extra[k])
	}
	return "{" + strings.Join(parts, " ") + "}"
}
