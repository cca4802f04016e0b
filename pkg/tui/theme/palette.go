package theme

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette assigns every language a stable color.
type Palette struct {
	Saturation float64
	Lightness  float64

	cache map[string]string
}

// NewPalette returns a palette tuned for dark terminals.
func NewPalette() *Palette {
	return &Palette{Saturation: 0.55, Lightness: 0.62, cache: make(map[string]string)}
}

// Hex returns the color of language as #rrggbb. The hue is derived from the
// language name so it never changes between runs.
func (p *Palette) Hex(language string) string {
	key := strings.ToLower(strings.TrimSpace(language))
	if hex, ok := p.cache[key]; ok {
		return hex
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	hue := float64(h.Sum32()%360) + 0.5
	hex := colorful.Hsl(hue, p.Saturation, p.Lightness).Clamped().Hex()
	if p.cache == nil {
		p.cache = make(map[string]string)
	}
	p.cache[key] = hex
	return hex
}

// Style returns a foreground style in the language color.
func (p *Palette) Style(language string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Hex(language)))
}
