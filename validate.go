package htmlcheck

import (
	"fmt"
	"strings"
)

// VoidElements never take a closing tag. Names are lower case.
var VoidElements = map[string]struct{}{
	"area":     {},
	"base":     {},
	"br":       {},
	"col":      {},
	"command":  {},
	"embed":    {},
	"hr":       {},
	"img":      {},
	"input":    {},
	"keygen":   {},
	"link":     {},
	"menuitem": {},
	"meta":     {},
	"param":    {},
	"source":   {},
	"track":    {},
	"wbr":      {},
}

func IsVoid(name string) bool {
	_, ok := VoidElements[strings.ToLower(name)]
	return ok
}

// Validate reports whether every non-void open tag in html is closed in the
// right order. Comments, script and style bodies, self-closing tags and
// attribute values are never inspected.
func Validate(html string) bool {
	return Check(html).Balanced
}

type ViolationKind int

const (
	// Unclosed: input ended with tags still open.
	Unclosed ViolationKind = iota + 1
	// Stray: a close tag arrived with nothing open.
	Stray
	// Mismatch: a close tag does not match the innermost open tag.
	Mismatch
)

func (k ViolationKind) String() string {
	switch k {
	case Unclosed:
		return "unclosed"
	case Stray:
		return "stray"
	case Mismatch:
		return "mismatch"
	}
	return fmt.Sprintf("ViolationKind(%d)", int(k))
}

// Violation describes the first reason an input is unbalanced.
// Location is relative to the whitespace-trimmed input.
type Violation struct {
	Kind ViolationKind
	// Tag is the offending tag, lower-cased.
	Tag string
	// Expected is the tag that was open when a mismatched close arrived.
	Expected string
	Location
}

func (v *Violation) Error() string {
	switch v.Kind {
	case Unclosed:
		return fmt.Sprintf("<%s> is never closed", v.Tag)
	case Stray:
		return fmt.Sprintf("</%s> closes nothing", v.Tag)
	case Mismatch:
		return fmt.Sprintf("</%s> found while <%s> is open", v.Tag, v.Expected)
	}
	return v.Kind.String()
}

type Result struct {
	Balanced  bool
	Violation *Violation
}

type openElement struct {
	name  string
	start int
}

// Check runs the same algorithm as Validate and also reports why an
// unbalanced input failed.
func Check(html string) Result {
	source := strings.TrimSpace(html)
	var stack []openElement

	for token := range Tokenize(source) {
		if token.Category != OpenTag && token.Category != CloseTag {
			continue
		}

		name := strings.ToLower(token.Name)
		if _, ok := VoidElements[name]; ok {
			continue
		}

		if token.Category == OpenTag {
			stack = append(stack, openElement{name: name, start: token.Start})
			continue
		}

		if len(stack) == 0 {
			return failed(source, Violation{Kind: Stray, Tag: name}, token.Start)
		}
		if top := stack[len(stack)-1]; top.name != name {
			return failed(source, Violation{Kind: Mismatch, Tag: name, Expected: top.name}, token.Start)
		}
		stack = stack[:len(stack)-1]
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return failed(source, Violation{Kind: Unclosed, Tag: top.name}, top.start)
	}
	return Result{Balanced: true}
}

func failed(source string, v Violation, offset int) Result {
	v.Location = locate(source, offset)
	return Result{Violation: &v}
}
