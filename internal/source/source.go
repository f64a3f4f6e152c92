/*
File   : gday-mate/internal/source/source.go
Package source exposes the two ways program text can be fed to the lexer:
straight through, or reversed and flipped rightside-up glyph-by-glyph. Both
satisfy the same Reader contract so the lexer never has to know which one
it's reading from.
*/
package source

// Reader yields the program's characters with arbitrary lookahead. Next
// consumes the head rune; Peek looks ahead without consuming, and can be
// called repeatedly to look further ahead; ResetPeek rewinds the lookahead
// cursor back to the head so a fresh Peek sequence can start over.
type Reader interface {
	Next() (r rune, ok bool)
	Peek() (r rune, ok bool)
	ResetPeek()
}

// Direct reads runes in source order, verbatim.
type Direct struct {
	runes []rune
	pos   int
	peek  int
}

// NewDirect builds a Reader over src with no transformation applied.
func NewDirect(src string) *Direct {
	return &Direct{runes: []rune(src)}
}

// Next consumes and returns the head rune.
func (d *Direct) Next() (rune, bool) {
	if d.pos >= len(d.runes) {
		return 0, false
	}
	r := d.runes[d.pos]
	d.pos++
	d.peek = d.pos
	return r, true
}

// Peek returns the rune `d.peek - d.pos` steps ahead of the head and
// advances the internal peek cursor one further, so successive calls walk
// forward without consuming.
func (d *Direct) Peek() (rune, bool) {
	if d.peek >= len(d.runes) {
		return 0, false
	}
	r := d.runes[d.peek]
	d.peek++
	return r, true
}

// ResetPeek rewinds the peek cursor back to the current head.
func (d *Direct) ResetPeek() {
	d.peek = d.pos
}

// Reversed reads the input back to front and maps each glyph through
// rightsideUpTable, so a program authored reversed-and-upside-down reads
// as ordinary text. Unmapped glyphs pass through unchanged.
//
// The mapping below covers the Latin letters, digits, and bracket/paren
// glyphs that commonly appear in "flip text" renderings; it is a
// representative table, not the production glyph-reflection corpus (that
// lives outside this module's scope per the language's reflection-table
// collaborator).
type Reversed struct {
	runes []rune // already in right-to-left traversal order
	pos   int
	peek  int
}

// NewReversed builds a Reader that iterates src from its last rune to its
// first, reorienting each one.
func NewReversed(src string) *Reversed {
	in := []rune(src)
	out := make([]rune, len(in))
	for i, r := range in {
		out[len(in)-1-i] = reorient(r)
	}
	return &Reversed{runes: out}
}

func (r *Reversed) Next() (rune, bool) {
	if r.pos >= len(r.runes) {
		return 0, false
	}
	c := r.runes[r.pos]
	r.pos++
	r.peek = r.pos
	return c, true
}

func (r *Reversed) Peek() (rune, bool) {
	if r.peek >= len(r.runes) {
		return 0, false
	}
	c := r.runes[r.peek]
	r.peek++
	return c, true
}

func (r *Reversed) ResetPeek() {
	r.peek = r.pos
}

// rightsideUpTable maps a rotated/mirrored glyph back to its conventional
// orientation. Keys not present pass through reorient unchanged.
var rightsideUpTable = map[rune]rune{
	// mixed case, then lowercase
	'Ǝ': 'E', 'ʞ': 'k', '⅄': 'Y', 'ʎ': 'y',
	'ɐ': 'a', 'q': 'b', 'ɔ': 'c', 'p': 'd',
	'ǝ': 'e', 'ɟ': 'f', 'ƃ': 'g', 'ɥ': 'h', 'ı': 'i', 'ɾ': 'j',
	'ɯ': 'm', 'u': 'n', 'ɹ': 'r', 'ʇ': 't',
	'ʌ': 'v', 'ʍ': 'w',
	// uppercase
	'∀': 'A', 'ꓯ': 'B', 'Ɔ': 'C', 'ᗡ': 'D', 'Ⅎ': 'F', 'פ': 'G',
	'ſ': 'J', 'ꓘ': 'K', '˥': 'L', 'W': 'M',
	'Ԁ': 'P', 'Ꝺ': 'Q', 'ꓤ': 'R',
	'⊥': 'T', '∩': 'U', 'Λ': 'V', 'M': 'W',
	// digits
	'ᄅ': '2', 'Ɛ': '3', 'ㄣ': '4', 'ϛ': '5', '9': '6', 'ㄥ': '7',
	// bracket/paren pairs flip, matched pairs swap
	'(': ')', ')': '(', '[': ']', ']': '[', '{': '}', '}': '{',
	'<': '>', '>': '<',
}

func reorient(r rune) rune {
	if mapped, ok := rightsideUpTable[r]; ok {
		return mapped
	}
	return r
}
