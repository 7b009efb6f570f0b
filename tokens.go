package htmlcheck

import "fmt"

// Category identifies which of the six markup constructs a token is.
// The declaration order doubles as the tie-break priority used by the scanner.
type Category int

const (
	OpenTag Category = iota
	CloseTag
	SelfClosingTag
	Comment
	Script
	Style
)

func (c Category) String() string {
	switch c {
	case OpenTag:
		return "OPEN_TAG"
	case CloseTag:
		return "CLOSE_TAG"
	case SelfClosingTag:
		return "SELF_CLOSING_TAG"
	case Comment:
		return "COMMENT"
	case Script:
		return "SCRIPT"
	case Style:
		return "STYLE"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// IsTag reports whether tokens of this category carry a tag name.
func (c Category) IsTag() bool {
	return c == OpenTag || c == CloseTag || c == SelfClosingTag
}

type Location struct {
	Line   int
	Column int
	Cursor int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Token is one recognised construct. End is exclusive.
type Token struct {
	Category Category
	Start    int
	End      int
	// Name is the tag name as written, empty for comments, scripts and styles.
	Name string
}

func (t Token) Kind() string {
	return t.Category.String()
}

// Text returns the slice of source the token spans.
func (t Token) Text(source string) string {
	return source[t.Start:t.End]
}

func (t Token) String() string {
	if t.Name == "" {
		return fmt.Sprintf("%s [%d,%d)", t.Category, t.Start, t.End)
	}
	return fmt.Sprintf("%s %q [%d,%d)", t.Category, t.Name, t.Start, t.End)
}

// locate converts a byte offset into a 1-based line and column.
func locate(source string, offset int) Location {
	loc := Location{Line: 1, Column: 1, Cursor: offset}
	for _, r := range source[:offset] {
		if r == '\n' {
			loc.Line++
			loc.Column = 1
			continue
		}
		loc.Column++
	}
	return loc
}
