package htmlcheck

import (
	"iter"
	"regexp"
)

const (
	// space is the ECMAScript whitespace set, wider than RE2's \s.
	space      = `[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`
	tagName    = `([a-zA-Z][a-zA-Z0-9-]*)`
	attributes = `(?:` + space + `+[a-zA-Z][a-zA-Z0-9-]*?(?:="[\s\S]*?")?)*`
)

// categories is the tie-break order: on equal start offsets the later entry wins.
var categories = [...]Category{OpenTag, CloseTag, SelfClosingTag, Comment, Script, Style}

// Indexed by Category. Tag names match either ASCII case; script and style
// only match lower case. No (?i): it would fold U+212A and U+017F onto k and s.
var matchers = [...]*regexp.Regexp{
	OpenTag:        regexp.MustCompile(`<` + tagName + attributes + space + `*>`),
	CloseTag:       regexp.MustCompile(`</` + tagName + space + `*>`),
	SelfClosingTag: regexp.MustCompile(`<` + tagName + attributes + space + `*/>`),
	Comment:        regexp.MustCompile(`<!--[\s\S]*?-->`),
	Script:         regexp.MustCompile(`<script[\s\S]*?</script` + space + `*?>`),
	Style:          regexp.MustCompile(`<style[\s\S]*?</style` + space + `*?>`),
}

// NextToken returns the earliest construct starting at or after offset.
// It holds no state between calls and is safe for concurrent use.
func NextToken(text string, offset int) (Token, bool) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		return Token{}, false
	}

	var best Token
	found := false
	for _, c := range categories {
		if tok, ok := find(c, text, offset); ok {
			best, found = earliest(best, found, tok)
		}
	}
	return best, found
}

// Tokenize scans text from the beginning and yields every construct in order.
func Tokenize(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		t := NewTokenizer(text)
		for token, ok := t.next(); ok && yield(token); token, ok = t.next() {
		}
	}
}

// Tokenizer is a single pass over one input. It remembers each matcher's
// last result so a matcher is only re-run once the cursor has moved past it.
type Tokenizer struct {
	source string
	offset int
	ahead  [len(categories)]lookahead
}

type lookahead struct {
	token   Token
	found   bool
	checked bool
}

func NewTokenizer(source string) *Tokenizer {
	return &Tokenizer{source: source}
}

func (t *Tokenizer) next() (Token, bool) {
	if t.offset > len(t.source) {
		return Token{}, false
	}

	var best Token
	found := false
	for _, c := range categories {
		la := &t.ahead[c]
		if !la.checked || (la.found && la.token.Start < t.offset) {
			la.token, la.found = find(c, t.source, t.offset)
			la.checked = true
		}
		if la.found {
			best, found = earliest(best, found, la.token)
		}
	}

	if found {
		t.offset = best.End
	}
	return best, found
}

// earliest folds tok into the running minimum. Ties go to tok.
func earliest(best Token, found bool, tok Token) (Token, bool) {
	if !found || tok.Start <= best.Start {
		return tok, true
	}
	return best, true
}

func find(c Category, text string, offset int) (Token, bool) {
	loc := matchers[c].FindStringSubmatchIndex(text[offset:])
	if loc == nil {
		return Token{}, false
	}

	token := Token{
		Category: c,
		Start:    offset + loc[0],
		End:      offset + loc[1],
	}
	if len(loc) >= 4 && loc[2] >= 0 {
		token.Name = text[offset+loc[2] : offset+loc[3]]
	}
	return token, true
}
