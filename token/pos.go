package token

import "fmt"

// Pos is a 1-based line and column inside a source file.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is the source span a sequence point maps back to.
type Range struct {
	FileName string
	Start    Pos
	End      Pos
}

// NewRange is a convenience for single-line spans.
func NewRange(file string, line, startCol, endCol int) *Range {
	return &Range{
		FileName: file,
		Start:    Pos{Line: line, Column: startCol},
		End:      Pos{Line: line, Column: endCol},
	}
}

func (r *Range) String() string {
	if r == nil {
		return "<no range>"
	}
	if r.FileName == "" {
		return r.Start.String() + "-" + r.End.String()
	}
	return fmt.Sprintf("%s:%s-%s", r.FileName, r.Start, r.End)
}
