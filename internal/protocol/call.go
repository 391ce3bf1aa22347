package protocol

import "strings"

// CallKind distinguishes the requests the daemon can send the backend.
type CallKind uint8

const (
	CallInit CallKind = iota
	CallQuit
	CallEditAt
	CallQuery
	CallHints
	CallGoal
	CallAdd
	CallStatus
)

func (k CallKind) name() string {
	switch k {
	case CallInit:
		return "Init"
	case CallQuit:
		return "Quit"
	case CallEditAt:
		return "Edit_at"
	case CallQuery:
		return "Query"
	case CallHints:
		return "Hints"
	case CallGoal:
		return "Goal"
	case CallAdd:
		return "Add"
	case CallStatus:
		return "Status"
	default:
		return "Unknown"
	}
}

// Call is a request the daemon sends to the backend.
type Call struct {
	Kind CallKind

	InitFile    string
	HasInitFile bool

	EditAtId int

	QueryRoute int
	QueryText  string
	QueryState int

	AddText  string
	AddState int

	StatusForce bool
}

func Init(file string, has bool) Call {
	return Call{Kind: CallInit, InitFile: file, HasInitFile: has}
}

func Quit() Call { return Call{Kind: CallQuit} }

func EditAt(id int) Call { return Call{Kind: CallEditAt, EditAtId: id} }

func Query(route int, text string, state int) Call {
	return Call{Kind: CallQuery, QueryRoute: route, QueryText: text, QueryState: state}
}

func Hints() Call { return Call{Kind: CallHints} }

// GoalCall and StatusCall carry the "Call" suffix to stay clear of the
// Goal and Status payload structs.
func GoalCall() Call { return Call{Kind: CallGoal} }

func Add(text string, state int) Call {
	return Call{Kind: CallAdd, AddText: text, AddState: state}
}

func StatusCall(force bool) Call { return Call{Kind: CallStatus, StatusForce: force} }

// EncodeCall renders a Call to the wire shape <call val="Name">payload</call>.
func EncodeCall(c Call) string {
	var payload Value
	switch c.Kind {
	case CallInit:
		if c.HasInitFile {
			payload = OptSome(Str(c.InitFile))
		} else {
			payload = OptNone()
		}
	case CallQuit:
		payload = Unit()
	case CallEditAt:
		payload = StateId(c.EditAtId)
	case CallQuery:
		payload = Pair(RouteId(c.QueryRoute), Pair(Str(c.QueryText), StateId(c.QueryState)))
	case CallHints:
		payload = Unit()
	case CallGoal:
		payload = Unit()
	case CallAdd:
		// Pair(Pair(Str text, Int(-1)), Pair(StateId sid, Bool true))
		payload = Pair(Pair(Str(c.AddText), Int(-1)), Pair(StateId(c.AddState), Bool(true)))
	case CallStatus:
		payload = Bool(c.StatusForce)
	}

	var b strings.Builder
	b.WriteString(`<call val="`)
	b.WriteString(c.Kind.name())
	b.WriteString(`">`)
	encodeInto(&b, payload)
	b.WriteString("</call>")
	return b.String()
}
