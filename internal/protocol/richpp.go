package protocol

// PartKind classifies one fragment of a pretty-printed, semantically
// annotated message.
type PartKind uint8

const (
	PartRaw PartKind = iota
	PartKeyword
	PartEvar
	PartType
	PartNotation
	PartVariable
	PartReference
	PartPath
	PartWarning
	PartError
)

func (k PartKind) String() string {
	switch k {
	case PartRaw:
		return "raw"
	case PartKeyword:
		return "keyword"
	case PartEvar:
		return "evar"
	case PartType:
		return "type"
	case PartNotation:
		return "notation"
	case PartVariable:
		return "variable"
	case PartReference:
		return "reference"
	case PartPath:
		return "path"
	case PartWarning:
		return "warning"
	case PartError:
		return "error"
	default:
		return "raw"
	}
}

// Part is one element of a RichPP: a run of text tagged with the semantic
// class the backend assigned it.
type Part struct {
	Kind PartKind
	Text string
}

// RichPP is an ordered sequence of parts, concatenated in order to recover
// the plain-text message.
type RichPP []Part

// String concatenates the text of every part, discarding semantic tags.
func (r RichPP) String() string {
	var total int
	for _, p := range r {
		total += len(p.Text)
	}
	buf := make([]byte, 0, total)
	for _, p := range r {
		buf = append(buf, p.Text...)
	}
	return string(buf)
}

// richppTagKind maps the element names coqtop uses inside <richpp><_><pp>
// to our PartKind. Anything absent from this table renders as raw text
// rather than failing the decode, matching the Unknown-forward-compat
// stance the codec takes for whole values.
var richppTagKind = map[string]PartKind{
	"constr.keyword":   PartKeyword,
	"constr.evar":      PartEvar,
	"constr.type":      PartType,
	"constr.notation":  PartNotation,
	"constr.variable":  PartVariable,
	"constr.reference": PartReference,
	"constr.path":      PartPath,
	"warning":          PartWarning,
	"error":            PartError,
	"message.warning":  PartWarning,
	"message.error":    PartError,
}

// MessageLevel is the severity attached to a Message feedback.
type MessageLevel uint8

const (
	LevelDebug MessageLevel = iota
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
)

func ParseMessageLevel(s string) (MessageLevel, bool) {
	switch s {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "notice":
		return LevelNotice, true
	case "warning":
		return LevelWarning, true
	case "error":
		return LevelError, true
	default:
		return 0, false
	}
}

func (l MessageLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelNotice:
		return "notice"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "debug"
	}
}
