package manifest

import (
	"sort"

	"github.com/alecthomas/chroma/v2/lexers"
)

// UnknownLanguage labels files no lexer claims.
const UnknownLanguage = "Text"

// DetectLanguage guesses a language name from the file name.
func DetectLanguage(p string) string {
	lexer := lexers.Match(Base(p))
	if lexer == nil {
		return UnknownLanguage
	}
	return lexer.Config().Name
}

// Share is one language's portion of the manifest.
type Share struct {
	Language string  `json:"language"`
	Files    int     `json:"files"`
	Weight   int64   `json:"weight"`
	Fraction float64 `json:"fraction"`
}

// Composition summarizes the manifest by language, weighted by bytes or
// lines (byLines). Shares are sorted by weight, heaviest first.
func Composition(entries []Entry, byLines bool) []Share {
	totals := make(map[string]*Share)
	var sum int64
	for _, e := range entries {
		if IsFolderMarker(e.Path) {
			continue
		}
		lang := e.Language
		if lang == "" {
			lang = UnknownLanguage
		}
		s, ok := totals[lang]
		if !ok {
			s = &Share{Language: lang}
			totals[lang] = s
		}
		w := e.Bytes
		if byLines {
			w = e.Lines
		}
		s.Files++
		s.Weight += w
		sum += w
	}
	out := make([]Share, 0, len(totals))
	for _, s := range totals {
		if sum > 0 {
			s.Fraction = float64(s.Weight) / float64(sum)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight == out[j].Weight {
			return out[i].Language < out[j].Language
		}
		return out[i].Weight > out[j].Weight
	})
	return out
}
