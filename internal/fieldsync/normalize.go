package fieldsync

import "strings"

// punctFolds maps unicode punctuation variants to their ASCII equivalents.
// The CRM has been observed storing visually identical field names that
// differ only by em dash vs hyphen or curly vs straight quote, so raw string
// comparison against the remote catalog is never safe.
var punctFolds = map[rune]rune{
	'‐': '-',  // hyphen
	'‑': '-',  // non-breaking hyphen
	'‒': '-',  // figure dash
	'–': '-',  // en dash
	'—': '-',  // em dash
	'―': '-',  // horizontal bar
	'−': '-',  // minus sign
	'‘': '\'', // left single quote
	'’': '\'', // right single quote
	'‚': '\'', // low single quote
	'“': '"',  // left double quote
	'”': '"',  // right double quote
	'„': '"',  // low double quote
	' ': ' ',  // non-breaking space
}

// FoldName maps a field name onto its ASCII-folded, case-folded,
// whitespace-collapsed form. Used at both fetch time and lookup time; never
// compare raw names.
func FoldName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if folded, ok := punctFolds[r]; ok {
			r = folded
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(strings.ToLower(b.String())), " ")
}

// KeyFor reduces a field name or fieldKey to the canonical catalog key:
// folded, lowercased, word characters only, underscore separated.
// "Content Goals" and "contact.content_goals" both reduce to
// "content_goals".
func KeyFor(name string) string {
	name = strings.TrimPrefix(FoldName(name), "contact.")
	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
