package zeroorm

import (
	"regexp"
	"strings"
)

var (
	// A sigil not preceded by another sigil or a word character, so that
	// casts (::int), server variables (@@rowcount) and addresses are skipped.
	// Word characters include any Unicode letter or digit.
	placeholderRE = regexp.MustCompile(`(?:^|[^:@\p{L}\p{N}_])([:@][\p{L}\p{N}_]+)`)
	quotedRE      = regexp.MustCompile(`'(?:[^']|'')*'`)
)

type token struct {
	name       string
	start, end int
}

// tokens returns every placeholder occurrence in text, in order, with byte
// offsets into text. Single-quoted literals are ignored.
func tokens(text string) []token {
	masked := quotedRE.ReplaceAllStringFunc(text, func(s string) string {
		return strings.Repeat(" ", len(s))
	})
	matches := placeholderRE.FindAllStringSubmatchIndex(masked, -1)
	toks := make([]token, 0, len(matches))
	for _, m := range matches {
		toks = append(toks, token{name: text[m[2]:m[3]], start: m[2], end: m[3]})
	}
	return toks
}

// Placeholders is the distinct set of placeholder tokens of a command text,
// sigils included, in first-seen order.
type Placeholders []string

// ScanPlaceholders extracts the placeholders referenced by text. A placeholder
// name is a run of Unicode letters, digits and underscores.
func ScanPlaceholders(text string) Placeholders {
	toks := tokens(text)
	seen := make(map[string]struct{}, len(toks))
	out := make(Placeholders, 0, len(toks))
	for _, t := range toks {
		if _, ok := seen[t.name]; ok {
			continue
		}
		seen[t.name] = struct{}{}
		out = append(out, t.name)
	}
	return out
}

func (p Placeholders) Contains(name string) bool {
	for _, n := range p {
		if n == name {
			return true
		}
	}
	return false
}

func (p Placeholders) String() string {
	return "[" + strings.Join(p, ", ") + "]"
}

func hasSigil(name string) bool {
	return name != "" && (name[0] == ':' || name[0] == '@')
}

func trimSigil(name string) string {
	if hasSigil(name) {
		return name[1:]
	}
	return name
}
