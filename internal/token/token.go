package token

import "fmt"

// Position locates a term in the document it was decoded from.
// The zero value means the position is unknown.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	switch {
	case p.File != "" && p.IsValid():
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	case p.IsValid():
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	case p.File != "":
		return p.File
	}
	return ""
}
