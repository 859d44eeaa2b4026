package irb

import "fmt"

type DiagKind uint8

const (
	DiagReserved    DiagKind = iota // reserved field differs from the historical value
	DiagDirectory                   // directory offsets or sizes disagree with the data
	DiagEmptyBlock                  // EMPTY entry with a payload
	DiagRecoverable                 // placeholder substituted, decoding continued
	DiagPlane                       // pixel plane not consumed exactly
	DiagTrailing                    // unexplained bytes after the last structure
	DiagFrameChain                  // frame linkage inconsistency
)

func (k DiagKind) String() string {
	switch k {
	case DiagReserved:
		return "reserved"
	case DiagDirectory:
		return "directory"
	case DiagEmptyBlock:
		return "empty-block"
	case DiagRecoverable:
		return "recoverable"
	case DiagPlane:
		return "plane"
	case DiagTrailing:
		return "trailing"
	case DiagFrameChain:
		return "frame-chain"
	}
	return fmt.Sprintf("DiagKind(%d)", uint8(k))
}

// Diagnostic records a format ambiguity. It never stops decoding.
type Diagnostic struct {
	Kind      DiagKind
	Structure string
	Offset    int64
	Message   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s@%d: %s", d.Kind, d.Structure, d.Offset, d.Message)
}

func (parser *parser) note(kind DiagKind, structure string, off int, format string, args ...any) {
	d := Diagnostic{
		Kind:      kind,
		Structure: structure,
		Offset:    parser.base + int64(off),
		Message:   fmt.Sprintf(format, args...),
	}
	parser.diags = append(parser.diags, d)
	parser.cfg.Logger.Print(d)
}

func (parser *parser) fail(structure string, off int, err error) error {
	return &FormatError{Structure: structure, Offset: parser.base + int64(off), Err: err}
}

// checkReserved compares a reserved field against its historical value.
func (parser *parser) checkReserved(structure, field string, off int, want, got int64) {
	if want != got {
		parser.note(DiagReserved, structure, off, "%s = %#x, historically %#x", field, got, want)
	}
}
