package hashkernel

import (
	"regexp"
	"strings"
)

// lfOrCRLF matches a lone "\n" or a "\r\n" pair, used to normalize either
// to "\r\n".
var lfOrCRLF = regexp.MustCompile(`\r?\n`)

// contentVariators normalize line endings across the whole text, applied
// in this fixed order: identity, LF(optionally preceded by CR)->CRLF,
// CRLF->LF.
var contentVariators = []func(string) string{
	func(s string) string { return s },
	func(s string) string { return lfOrCRLF.ReplaceAllString(s, "\r\n") },
	func(s string) string { return strings.ReplaceAll(s, "\r\n", "\n") },
}

// endingVariators adjust only the trailing whitespace, applied in this
// fixed order: identity, right-trim, right-trim+LF, right-trim+CRLF, +LF,
// +CRLF.
var endingVariators = []func(string) string{
	func(s string) string { return s },
	rightTrim,
	func(s string) string { return rightTrim(s) + "\n" },
	func(s string) string { return rightTrim(s) + "\r\n" },
	func(s string) string { return s + "\n" },
	func(s string) string { return s + "\r\n" },
}

func rightTrim(s string) string {
	return strings.TrimRight(s, " \t\r\n\v\f")
}

// Variations returns the 18-element Cartesian product of contentVariators
// and endingVariators applied to text, in contentVariator-major order.
// Duplicates are not suppressed: callers building a hash index simply let
// later, semantically-equivalent variants overwrite earlier ones.
func Variations(text string) []string {
	out := make([]string, 0, len(contentVariators)*len(endingVariators))
	for _, contentVariator := range contentVariators {
		varied := contentVariator(text)
		for _, endingVariator := range endingVariators {
			out = append(out, endingVariator(varied))
		}
	}
	return out
}
