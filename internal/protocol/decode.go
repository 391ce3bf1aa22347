package protocol

import "strconv"

// DecodeValue interprets a generic Node as a Value. Unknown element
// names decode to Unknown(raw) instead of failing, preserving forward
// compatibility.
func DecodeValue(n *Node) (Value, error) {
	switch n.Name {
	case "unit":
		return Unit(), nil
	case "list":
		kids := n.Elements()
		vs := make([]Value, 0, len(kids))
		for _, k := range kids {
			v, err := DecodeValue(k)
			if err != nil {
				return Value{}, err
			}
			vs = append(vs, v)
		}
		return List(vs), nil
	case "string":
		return Str(n.Text()), nil
	case "int":
		i, err := strconv.Atoi(n.Text())
		if err != nil {
			return Value{}, newDecodeError(InvalidValue, "malformed <int>: %v", err)
		}
		return Int(i), nil
	case "bool":
		val, ok := n.Attr("val")
		if !ok {
			return Value{}, newDecodeError(InvalidValue, "<bool> missing val attribute")
		}
		switch val {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		default:
			return Value{}, newDecodeError(InvalidValue, "invalid <bool val=%q>", val)
		}
	case "pair":
		kids := n.Elements()
		if len(kids) != 2 {
			return Value{}, newDecodeError(InvalidPair, "<pair> expects 2 children, got %d", len(kids))
		}
		a, err := DecodeValue(kids[0])
		if err != nil {
			return Value{}, err
		}
		b, err := DecodeValue(kids[1])
		if err != nil {
			return Value{}, err
		}
		return Pair(a, b), nil
	case "option":
		val, ok := n.Attr("val")
		if !ok {
			return Value{}, newDecodeError(InvalidOption, "<option> missing val attribute")
		}
		switch val {
		case "none":
			return OptNone(), nil
		case "some":
			kids := n.Elements()
			if len(kids) != 1 {
				return Value{}, newDecodeError(InvalidOption, "<option val=\"some\"> expects 1 child, got %d", len(kids))
			}
			inner, err := DecodeValue(kids[0])
			if err != nil {
				return Value{}, err
			}
			return OptSome(inner), nil
		default:
			return Value{}, newDecodeError(InvalidOption, "invalid <option val=%q>", val)
		}
	case "union":
		val, ok := n.Attr("val")
		if !ok {
			return Value{}, newDecodeError(InvalidValue, "<union> missing val attribute")
		}
		kids := n.Elements()
		if len(kids) != 1 {
			return Value{}, newDecodeError(InvalidValue, "<union> expects 1 child, got %d", len(kids))
		}
		inner, err := DecodeValue(kids[0])
		if err != nil {
			return Value{}, err
		}
		switch val {
		case "in_l":
			return Inl(inner), nil
		case "in_r":
			return Inr(inner), nil
		default:
			return Value{}, newDecodeError(InvalidValue, "invalid <union val=%q>", val)
		}
	case "state_id":
		id, err := attrInt(n, "val")
		if err != nil {
			return Value{}, newDecodeError(InvalidStateId, "%v", err)
		}
		return StateId(id), nil
	case "route_id":
		id, err := attrInt(n, "val")
		if err != nil {
			return Value{}, newDecodeError(InvalidValue, "invalid <route_id>: %v", err)
		}
		return RouteId(id), nil
	case "status":
		kids := n.Elements()
		if len(kids) != 4 {
			return Value{}, newDecodeError(InvalidValue, "<status> expects 4 children, got %d", len(kids))
		}
		pathVal, err := DecodeValue(kids[0])
		if err != nil {
			return Value{}, err
		}
		paths, ok := pathVal.AsList()
		if !ok {
			return Value{}, newDecodeError(InvalidValue, "<status> path is not a list")
		}
		st := Status{Path: valuesToStrings(paths)}

		nameVal, err := DecodeValue(kids[1])
		if err != nil {
			return Value{}, err
		}
		inner, some, isOpt := nameVal.AsOpt()
		if !isOpt {
			return Value{}, newDecodeError(InvalidValue, "<status> proof name is not an option")
		}
		if some {
			name, ok := inner.AsStr()
			if !ok {
				return Value{}, newDecodeError(InvalidValue, "<status> proof name is not a string")
			}
			st.ProofName = name
			st.HasProofName = true
		}

		pendingVal, err := DecodeValue(kids[2])
		if err != nil {
			return Value{}, err
		}
		pending, ok := pendingVal.AsList()
		if !ok {
			return Value{}, newDecodeError(InvalidValue, "<status> pending proofs is not a list")
		}
		st.PendingProofs = valuesToStrings(pending)

		numVal, err := DecodeValue(kids[3])
		if err != nil {
			return Value{}, err
		}
		num, ok := numVal.AsInt()
		if !ok {
			return Value{}, newDecodeError(InvalidValue, "<status> proof number is not an int")
		}
		st.ProofNumber = num
		return StatusValue(st), nil
	case "goals":
		return decodeGoalsValue(n)
	case "goal":
		g, err := decodeGoal(n)
		if err != nil {
			return Value{}, err
		}
		return GoalValue(g), nil
	default:
		return UnknownValue(n), nil
	}
}

func attrInt(n *Node, name string) (int, error) {
	s, ok := n.Attr(name)
	if !ok {
		return 0, newDecodeError(InvalidValue, "<%s> missing %s attribute", n.Name, name)
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, newDecodeError(InvalidValue, "<%s %s=%q>: %v", n.Name, name, s, err)
	}
	return i, nil
}

// valuesToStrings flattens a decoded list of <string> values, skipping
// anything else. Only for the <status> fields, which are defined as
// plain string lists; richer list payloads have their own decoders.
func valuesToStrings(vs []Value) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s, ok := v.AsStr(); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeGoalsValue(n *Node) (Value, error) {
	kids := n.Elements()
	if len(kids) != 4 {
		return Value{}, newDecodeError(InvalidGoals, "<goals> expects 4 children, got %d", len(kids))
	}
	focused, err := decodeGoalList(kids[0])
	if err != nil {
		return Value{}, err
	}
	background, err := decodeGoalPairList(kids[1])
	if err != nil {
		return Value{}, err
	}
	shelved, err := decodeGoalList(kids[2])
	if err != nil {
		return Value{}, err
	}
	givenUp, err := decodeGoalList(kids[3])
	if err != nil {
		return Value{}, err
	}
	return GoalsValue(Goals{
		Focused:    focused,
		Background: background,
		Shelved:    shelved,
		GivenUp:    givenUp,
	}), nil
}

func decodeGoalList(n *Node) ([]Goal, error) {
	if n.Name != "list" {
		return nil, newDecodeError(InvalidGoals, "expected <list> of goals, got <%s>", n.Name)
	}
	var out []Goal
	for _, k := range n.Elements() {
		g, err := decodeGoal(k)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func decodeGoalPairList(n *Node) ([]GoalPair, error) {
	if n.Name != "list" {
		return nil, newDecodeError(InvalidGoals, "expected <list> of background pairs, got <%s>", n.Name)
	}
	var out []GoalPair
	for _, k := range n.Elements() {
		if k.Name != "pair" {
			return nil, newDecodeError(InvalidGoals, "expected <pair> in background list, got <%s>", k.Name)
		}
		kids := k.Elements()
		if len(kids) != 2 {
			return nil, newDecodeError(InvalidGoals, "background <pair> expects 2 children, got %d", len(kids))
		}
		before, err := decodeGoalList(kids[0])
		if err != nil {
			return nil, err
		}
		after, err := decodeGoalList(kids[1])
		if err != nil {
			return nil, err
		}
		out = append(out, GoalPair{Before: before, After: after})
	}
	return out, nil
}

func decodeGoal(n *Node) (Goal, error) {
	if n.Name != "goal" {
		return Goal{}, newDecodeError(InvalidGoal, "expected <goal>, got <%s>", n.Name)
	}
	kids := n.Elements()
	if len(kids) != 3 {
		return Goal{}, newDecodeError(InvalidGoal, "<goal> expects 3 children, got %d", len(kids))
	}
	nameVal, err := DecodeValue(kids[0])
	if err != nil {
		return Goal{}, err
	}
	name, ok := nameVal.AsStr()
	if !ok {
		return Goal{}, newDecodeError(InvalidGoal, "<goal> name is not a string")
	}
	if kids[1].Name != "list" {
		return Goal{}, newDecodeError(InvalidGoal, "<goal> hypotheses is not a list")
	}
	var hyps []RichPP
	for _, k := range kids[1].Elements() {
		h, err := DecodeRichPP(k)
		if err != nil {
			return Goal{}, err
		}
		hyps = append(hyps, h)
	}
	concl, err := DecodeRichPP(kids[2])
	if err != nil {
		return Goal{}, err
	}
	return Goal{
		Name:       name,
		Hypotheses: hyps,
		Conclusion: concl,
	}, nil
}
