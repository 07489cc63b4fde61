package render

import (
	"slices"
	"strings"

	"github.com/matzehuels/skillgalaxy/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON}

// NeedsSVG reports whether producing format requires rendering SVG first.
func NeedsSVG(format string) bool {
	return format == FormatSVG || format == FormatPNG || format == FormatPDF
}

// ParseFormats splits a comma-separated list, lower-cases and deduplicates
// it. An empty list yields svg.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if !slices.Contains(Formats, f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"unknown format %q (want one of %s)", f, strings.Join(Formats, ", "))
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		out = []string{FormatSVG}
	}
	return out, nil
}
