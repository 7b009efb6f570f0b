package htmlcheck

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var balancedInputs = []struct {
	name  string
	input string
}{
	{"empty input", ""},
	{"open and close tags", "<div></div>"},
	{"self closing tags", "<img/>"},
	{"self closing non-void", "<div/>"},
	{"text content", "<span>text content</span>"},
	{"white spaces", `
      <p

      >

      </p


      >`},
	{"numbers in tag names", "<h3></h3>"},
	{"attributes", `
      <img
        src="https://upload.wikimedia.org/wikipedia/commons/thumb/6/6a/JavaScript-logo.png/240px-JavaScript-logo.png"
        width="240"
        height="240"
        alt="lorem"
      />
    `},
	{"invalid html in attribute values", `
      <img
        src="<span><p></span></p>"
        width="240"
        height="240"
        alt="lorem"
      />
    `},
	{"valid html in attribute values", `<img src="<span>text content</span>"/>`},
	{"nested markup", `
      <ul>
        <li>1</li>
        <li>2</li>
        <li>3</li>
      </ul>
    `},
	{"comments", `
      <div>
        <!-- <span>commented markup</span> -->
        <div></div>
        <!-- <img
          src="/lib/images/footer-logo.jpg"
          alt="logo"
        /><div> -->
      </div>
    `},
	{"comment alone", "<!-- <div> -->"},
	{"comments around text", "<div><!-- <span></span -->TEXT<!-- --></div>"},
	{"special chars in text content", "<span>/!&lt;&%$}{#?</span>"},
	{"case insensitive tag names", "<SPaN></Span>"},
	{"invalid html inside scripts", `
      <div>
        <script>
          const invalidHtmlString = '<div><span></div></span>';
        </script>
      </div>
    `},
	{"valid html inside scripts", `
      <div>
        <script>
          const validHtmlString = '<div><span>text</span></div>';
        </script>
      </div>
    `},
	{"script only", "<script>'<div><span></div></span>'</script>"},
	{"invalid html inside styles", "<style>a::after { content: '</p><b>' }</style>"},
	{"void elements without closing tag", `
      <div>
        <input type="text">
        <input type="text"/>
      </div>
    `},
	{"void elements with closing tag", `<div><input type="text"></input></div>`},
	{"void element alone", `<input type="text">`},
	{"void element close only", "</br>"},
	{"upper case void element", "<BR><HR></HR>"},
	{"text", "text content"},
	{"non-breaking space before bracket", "<div\u00a0></div>"},
	{"vertical tab before bracket", "<div\v></div>"},
	{"line separator before bracket", "<p\u2028></p>"},
	{"ideographic space in close tag", "<p></p\u3000>"},
	{"hyphenated custom element", "<my-widget data-x=\"1\"></my-widget>"},
}

var unbalancedInputs = []struct {
	name  string
	input string
}{
	{"unclosed tags", "<div>"},
	{"unopened tags", "</div>"},
	{"invalid tag sequences", "<div><span></div></span>"},
	{"extra close", "<div></div></div>"},
	{"upper case script is not raw text", "<SCRIPT>'<div>'</SCRIPT>"},
	{"unterminated comment exposes tags", "<!-- <div>"},
	{"single quoted attribute is not a tag", "<div id='x'></div>"},
	{"kelvin sign in tag name", "<di\u212a></dik>"},
	{"long s in tag name", "<\u017fpan></span>"},
}

func TestValidate(t *testing.T) {
	for _, tt := range balancedInputs {
		t.Run(tt.name, func(t *testing.T) {
			if !Validate(tt.input) {
				t.Errorf("Validate(%q) = false, want true", tt.input)
			}
		})
	}
	for _, tt := range unbalancedInputs {
		t.Run(tt.name, func(t *testing.T) {
			if Validate(tt.input) {
				t.Errorf("Validate(%q) = true, want false", tt.input)
			}
		})
	}
}

func TestValidateWhitespaceTolerance(t *testing.T) {
	single := `<p class="a"></p>`
	split := "<p\n   class=\"a\"   \n\t>\n</p \n >"
	if Validate(single) != Validate(split) {
		t.Errorf("Validate differs between %q and %q", single, split)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Result
	}{
		{
			name:  "balanced",
			input: "<div></div>",
			want:  Result{Balanced: true},
		},
		{
			name:  "unclosed reports innermost open tag",
			input: "  <div>\n  <SPAN>",
			want: Result{Violation: &Violation{
				Kind:     Unclosed,
				Tag:      "span",
				Location: Location{Line: 2, Column: 3, Cursor: 8},
			}},
		},
		{
			name:  "stray close",
			input: "</div>",
			want: Result{Violation: &Violation{
				Kind:     Stray,
				Tag:      "div",
				Location: Location{Line: 1, Column: 1, Cursor: 0},
			}},
		},
		{
			name:  "mismatch",
			input: "<div><span></div></span>",
			want: Result{Violation: &Violation{
				Kind:     Mismatch,
				Tag:      "div",
				Expected: "span",
				Location: Location{Line: 1, Column: 12, Cursor: 11},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Check(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestCheckAgreesWithValidate(t *testing.T) {
	for _, tt := range balancedInputs {
		if got := Check(tt.input); !got.Balanced || got.Violation != nil {
			t.Errorf("Check(%q) = %+v, want balanced", tt.input, got)
		}
	}
	for _, tt := range unbalancedInputs {
		if got := Check(tt.input); got.Balanced || got.Violation == nil {
			t.Errorf("Check(%q) = %+v, want a violation", tt.input, got)
		}
	}
}

func TestViolationError(t *testing.T) {
	tests := []struct {
		v    Violation
		want string
	}{
		{Violation{Kind: Unclosed, Tag: "div"}, "<div> is never closed"},
		{Violation{Kind: Stray, Tag: "p"}, "</p> closes nothing"},
		{Violation{Kind: Mismatch, Tag: "div", Expected: "span"}, "</div> found while <span> is open"},
	}
	for _, tt := range tests {
		var err error = &tt.v
		if err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
		}
	}
}

func TestIsVoid(t *testing.T) {
	for _, name := range []string{"br", "IMG", "Input", "wbr", "menuitem"} {
		if !IsVoid(name) {
			t.Errorf("IsVoid(%q) = false", name)
		}
	}
	for _, name := range []string{"div", "span", "script", ""} {
		if IsVoid(name) {
			t.Errorf("IsVoid(%q) = true", name)
		}
	}
}

func TestValidateConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan string, 64)

	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			balanced := fmt.Sprintf("<div><p>%d</p><!-- <b> --></div>", i)
			unbalanced := fmt.Sprintf("<div><p>%d</div>", i)
			for range 50 {
				if !Validate(balanced) {
					errs <- balanced
					return
				}
				if Validate(unbalanced) {
					errs <- unbalanced
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for input := range errs {
		t.Errorf("concurrent Validate(%q) gave the wrong answer", input)
	}
}
