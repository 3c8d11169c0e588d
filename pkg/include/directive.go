package include

import "regexp"

// directiveRe is the include directive syntax. It must not change: "." does
// not cross line breaks and ".*" is greedy up to the last quote on the line.
var directiveRe = regexp.MustCompile(`#include\s+"(?P<file>.*)"`)

var fileGroup = directiveRe.SubexpIndex("file")

// Directive is one include directive found in a document.
type Directive struct {
	Start int    // byte offset of '#'
	End   int    // byte offset just past the closing quote
	Path  string // literal between the quotes
}

// FindDirective returns the first directive in text.
func FindDirective(text string) (Directive, bool) {
	m := directiveRe.FindStringSubmatchIndex(text)
	if m == nil {
		return Directive{}, false
	}
	return Directive{
		Start: m[0],
		End:   m[1],
		Path:  text[m[2*fileGroup]:m[2*fileGroup+1]],
	}, true
}

// FindDirectives returns every directive in text, in order, without
// resolving anything.
func FindDirectives(text string) []Directive {
	var out []Directive
	for _, m := range directiveRe.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, Directive{
			Start: m[0],
			End:   m[1],
			Path:  text[m[2*fileGroup]:m[2*fileGroup+1]],
		})
	}
	return out
}
