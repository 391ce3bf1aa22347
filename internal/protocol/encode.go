package protocol

import (
	"strconv"
	"strings"
)

// Encode renders a Value to its wire XML shape.
func Encode(v Value) string {
	var b strings.Builder
	encodeInto(&b, v)
	return b.String()
}

func encodeInto(b *strings.Builder, v Value) {
	switch v.kind {
	case KindUnit:
		b.WriteString("<unit/>")
	case KindList:
		b.WriteString("<list>")
		for _, e := range v.list {
			encodeInto(b, e)
		}
		b.WriteString("</list>")
	case KindStr:
		b.WriteString("<string>")
		b.WriteString(Escape(v.str))
		b.WriteString("</string>")
	case KindInt:
		b.WriteString("<int>")
		b.WriteString(strconv.Itoa(v.num))
		b.WriteString("</int>")
	case KindBool:
		b.WriteString(`<bool val="`)
		b.WriteString(strconv.FormatBool(v.boolean))
		b.WriteString(`"/>`)
	case KindPair:
		b.WriteString("<pair>")
		if v.pair != nil {
			encodeInto(b, v.pair[0])
			encodeInto(b, v.pair[1])
		}
		b.WriteString("</pair>")
	case KindOpt:
		if v.opt == nil {
			b.WriteString(`<option val="none"/>`)
		} else {
			b.WriteString(`<option val="some">`)
			encodeInto(b, *v.opt)
			b.WriteString("</option>")
		}
	case KindInl:
		b.WriteString(`<union val="in_l">`)
		if v.inner != nil {
			encodeInto(b, *v.inner)
		}
		b.WriteString("</union>")
	case KindInr:
		b.WriteString(`<union val="in_r">`)
		if v.inner != nil {
			encodeInto(b, *v.inner)
		}
		b.WriteString("</union>")
	case KindStateId:
		b.WriteString(`<state_id val="`)
		b.WriteString(strconv.Itoa(v.num))
		b.WriteString(`"/>`)
	case KindRouteId:
		b.WriteString(`<route_id val="`)
		b.WriteString(strconv.Itoa(v.num))
		b.WriteString(`"/>`)
	case KindStatus:
		b.WriteString("<status>")
		if v.status != nil {
			encodeInto(b, List(stringsToValues(v.status.Path)))
			if v.status.HasProofName {
				encodeInto(b, OptSome(Str(v.status.ProofName)))
			} else {
				encodeInto(b, OptNone())
			}
			encodeInto(b, List(stringsToValues(v.status.PendingProofs)))
			encodeInto(b, Int(v.status.ProofNumber))
		}
		b.WriteString("</status>")
	default:
		// Goals, Goal, and Unknown are never re-encoded as outgoing calls;
		// the daemon only ever decodes them from the backend.
	}
}

func stringsToValues(ss []string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = Str(s)
	}
	return out
}
