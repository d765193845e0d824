package clip

// Kind tags the three shapes a ClipboardContent value can take: empty, plain
// text (possibly binary, tagged with a MIME hint), or a list of filesystem
// paths pending a copy or a cut.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindPaths
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPaths:
		return "paths"
	default:
		return "empty"
	}
}

// PathAction distinguishes a paste that should leave the source files alone
// (Copy) from one that must delete them once the paste succeeds (Cut).
type PathAction int

const (
	ActionCopy PathAction = iota
	ActionCut
)

func (a PathAction) String() string {
	if a == ActionCut {
		return "cut"
	}
	return "copy"
}

// Content is the tagged clipboard value threaded between the store, the MIME
// registry, and the GUI/remote bridges. It mirrors the teacher's plain-struct
// ClipboardContent convention rather than a Go interface hierarchy.
type Content struct {
	Kind Kind

	// Valid when Kind == KindText.
	Text []byte
	Mime string

	// Valid when Kind == KindPaths.
	Paths      []string
	PathAction PathAction

	// AvailableTypes lists MIME names the GUI backend said it could have
	// produced; carried only for reporting (§3), never used to decide
	// behavior.
	AvailableTypes []string
}

// Empty returns the zero ClipboardContent value.
func Empty() Content { return Content{Kind: KindEmpty} }

// IsEmpty reports whether c carries no content at all.
func (c Content) IsEmpty() bool {
	switch c.Kind {
	case KindText:
		return len(c.Text) == 0
	case KindPaths:
		return len(c.Paths) == 0
	default:
		return true
	}
}
