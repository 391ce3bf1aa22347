// Package protocol implements the XML call/response/feedback wire format
// spoken with the proof-assistant backend: a small self-describing value
// grammar, an encoder that renders it to bytes, and a streaming decoder
// that can be fed a partial byte stream.
package protocol

// Kind identifies which alternative of the tagged sum a Value holds.
type Kind uint8

const (
	KindUnit Kind = iota
	KindList
	KindStr
	KindInt
	KindBool
	KindPair
	KindOpt
	KindInl
	KindInr
	KindStateId
	KindRouteId
	KindStatus
	KindGoals
	KindGoal
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindList:
		return "list"
	case KindStr:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindPair:
		return "pair"
	case KindOpt:
		return "option"
	case KindInl:
		return "in_l"
	case KindInr:
		return "in_r"
	case KindStateId:
		return "state_id"
	case KindRouteId:
		return "route_id"
	case KindStatus:
		return "status"
	case KindGoals:
		return "goals"
	case KindGoal:
		return "goal"
	case KindUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Value is the protocol's tagged-sum value. Only the fields relevant to
// Kind are meaningful; callers deconstruct through the As* matchers
// rather than reading fields directly.
type Value struct {
	kind    Kind
	str     string
	num     int
	boolean bool
	list    []Value
	pair    *[2]Value
	opt     *Value // Some payload; nil for None (kind tells whether v is an option at all)
	isOpt   bool
	inner   *Value
	status  *Status
	goals   *Goals
	goal    *Goal
	unknown *Node
}

func Unit() Value { return Value{kind: KindUnit} }

func List(vs []Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindList, list: vs}
}

func Str(s string) Value { return Value{kind: KindStr, str: s} }

func Int(n int) Value { return Value{kind: KindInt, num: n} }

func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

func Pair(a, b Value) Value {
	return Value{kind: KindPair, pair: &[2]Value{a, b}}
}

// OptNone and OptSome build the Opt(...) alternative.
func OptNone() Value { return Value{kind: KindOpt, isOpt: true, opt: nil} }

func OptSome(v Value) Value { return Value{kind: KindOpt, isOpt: true, opt: &v} }

func Inl(v Value) Value { return Value{kind: KindInl, inner: &v} }

func Inr(v Value) Value { return Value{kind: KindInr, inner: &v} }

func StateId(n int) Value { return Value{kind: KindStateId, num: n} }

func RouteId(n int) Value { return Value{kind: KindRouteId, num: n} }

func StatusValue(s Status) Value { return Value{kind: KindStatus, status: &s} }

func GoalsValue(g Goals) Value { return Value{kind: KindGoals, goals: &g} }

func GoalValue(g Goal) Value { return Value{kind: KindGoal, goal: &g} }

func UnknownValue(n *Node) Value { return Value{kind: KindUnknown, unknown: n} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsUnit() bool { return v.kind == KindUnit }

func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

func (v Value) AsStr() (string, bool) {
	if v.kind != KindStr {
		return "", false
	}
	return v.str, true
}

func (v Value) AsInt() (int, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolean, true
}

func (v Value) AsPair() (Value, Value, bool) {
	if v.kind != KindPair || v.pair == nil {
		return Value{}, Value{}, false
	}
	return v.pair[0], v.pair[1], true
}

// AsOpt reports whether v is an Opt, and if so whether it carries Some(inner).
func (v Value) AsOpt() (inner Value, some bool, isOpt bool) {
	if v.kind != KindOpt {
		return Value{}, false, false
	}
	if v.opt == nil {
		return Value{}, false, true
	}
	return *v.opt, true, true
}

func (v Value) AsInl() (Value, bool) {
	if v.kind != KindInl || v.inner == nil {
		return Value{}, false
	}
	return *v.inner, true
}

func (v Value) AsInr() (Value, bool) {
	if v.kind != KindInr || v.inner == nil {
		return Value{}, false
	}
	return *v.inner, true
}

func (v Value) AsStateId() (int, bool) {
	if v.kind != KindStateId {
		return 0, false
	}
	return v.num, true
}

func (v Value) AsRouteId() (int, bool) {
	if v.kind != KindRouteId {
		return 0, false
	}
	return v.num, true
}

func (v Value) AsStatus() (*Status, bool) {
	if v.kind != KindStatus {
		return nil, false
	}
	return v.status, true
}

func (v Value) AsGoals() (*Goals, bool) {
	if v.kind != KindGoals {
		return nil, false
	}
	return v.goals, true
}

func (v Value) AsGoal() (*Goal, bool) {
	if v.kind != KindGoal {
		return nil, false
	}
	return v.goal, true
}

func (v Value) AsUnknown() (*Node, bool) {
	if v.kind != KindUnknown {
		return nil, false
	}
	return v.unknown, true
}

// Status mirrors coqtop's <status> response: the current load-path, the
// name of the proof under focus (if any), the names of all pending
// proofs, and the proof number (depth of the proof stack).
type Status struct {
	Path          []string
	ProofName     string
	HasProofName  bool
	PendingProofs []string
	ProofNumber   int
}

// Goals mirrors coqtop's <goals> response.
type Goals struct {
	Focused    []Goal
	Background []GoalPair
	Shelved    []Goal
	GivenUp    []Goal
}

// GoalPair is one level of the background-goal stack: the goals that were
// set aside before the current focus, and the ones waiting after it.
type GoalPair struct {
	Before []Goal
	After  []Goal
}

// Goal is a single proof obligation. Hypotheses and the conclusion are
// both semantically annotated pretty-printed text.
type Goal struct {
	Name       string
	Hypotheses []RichPP
	Conclusion RichPP
}
