package protocol

import "testing"

func TestDecoderPartialFeed(t *testing.T) {
	full := `<call val="Add"><pair><pair><string>foo.</string><int>-1</int></pair><pair><state_id val="3"/><bool val="true"/></pair></pair></call>`

	d := NewDecoder()
	var got *Node
	for i := 0; i < len(full); i++ {
		d.Feed([]byte{full[i]})
		n, ok, err := d.Next()
		if err != nil {
			t.Fatalf("unexpected error mid-stream at byte %d: %v", i, err)
		}
		if ok {
			got = n
			if i != len(full)-1 {
				t.Fatalf("decoder reported a complete node before the stream ended (byte %d of %d)", i, len(full)-1)
			}
		}
	}
	if got == nil {
		t.Fatal("decoder never produced a node")
	}
	if got.Name != "call" {
		t.Fatalf("expected <call>, got <%s>", got.Name)
	}
	val, _ := got.Attr("val")
	if val != "Add" {
		t.Fatalf("expected val=Add, got %q", val)
	}
}

func TestDecoderMultipleNodesInOneBuffer(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte(`<unit/><bool val="false"/>`))

	n1, ok, err := d.Next()
	if err != nil || !ok {
		t.Fatalf("expected first node, got ok=%v err=%v", ok, err)
	}
	if n1.Name != "unit" {
		t.Fatalf("expected <unit>, got <%s>", n1.Name)
	}

	n2, ok, err := d.Next()
	if err != nil || !ok {
		t.Fatalf("expected second node, got ok=%v err=%v", ok, err)
	}
	if n2.Name != "bool" {
		t.Fatalf("expected <bool>, got <%s>", n2.Name)
	}

	if d.Buffered() != 0 {
		t.Fatalf("expected buffer to be drained, %d bytes left", d.Buffered())
	}
}

func TestDecoderMismatchedCloseTag(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte(`<pair><int>1</int></wrong>`))
	_, _, err := d.Next()
	if err == nil {
		t.Fatal("expected an error for mismatched closing tag")
	}
	var de *DecodeError
	if !asDecodeError(err, &de) {
		t.Fatalf("expected a *DecodeError, got %T: %v", err, err)
	}
}

func asDecodeError(err error, target **DecodeError) bool {
	de, ok := err.(*DecodeError)
	if ok {
		*target = de
	}
	return ok
}

func TestNodeEncodeRoundTrip(t *testing.T) {
	wires := []string{
		`<unit/>`,
		`<bool val="true"/>`,
		`<feedback object="state" route="0"><state_id val="4"/><processed/></feedback>`,
		`<value val="good"><pair><string>a &lt; b &amp; c</string><int>3</int></pair></value>`,
	}
	for _, wire := range wires {
		n := decodeOneNode(t, wire)
		n2 := decodeOneNode(t, n.Encode())
		if !nodesEqual(n, n2) {
			t.Errorf("round trip changed the node for %q:\n first: %+v\nsecond: %+v", wire, n, n2)
		}
	}
}

func nodesEqual(a, b *Node) bool {
	if a.Name != b.Name || len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for k, v := range a.Attrs {
		if bv, ok := b.Attrs[k]; !ok || bv != v {
			return false
		}
	}
	for i := range a.Children {
		ca, cb := a.Children[i], b.Children[i]
		if ca.IsText != cb.IsText {
			return false
		}
		if ca.IsText {
			if ca.Text != cb.Text {
				return false
			}
		} else if !nodesEqual(ca.Node, cb.Node) {
			return false
		}
	}
	return true
}

func TestDecodeGoalsFromWire(t *testing.T) {
	wire := `<value val="good"><option val="some"><goals>` +
		`<list><goal><string>3</string>` +
		`<list>` +
		`<richpp><_><pp>n : <constr.type>nat</constr.type></pp></_></richpp>` +
		`<richpp><_><pp>H : n &gt; 0</pp></_></richpp>` +
		`</list>` +
		`<richpp><_><pp>n + 1 &gt; 0</pp></_></richpp>` +
		`</goal></list>` +
		`<list/><list/><list/>` +
		`</goals></option></value>`

	res, err := DecodeResult(decodeOneNode(t, wire))
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if res.Kind != ResultGood {
		t.Fatalf("expected ResultGood, got %v", res.Kind)
	}
	inner, some, isOpt := res.Good.AsOpt()
	if !isOpt || !some {
		t.Fatalf("expected Some(goals), got %+v", res.Good)
	}
	goals, ok := inner.AsGoals()
	if !ok {
		t.Fatalf("expected a goals value, got %+v", inner)
	}
	if len(goals.Focused) != 1 {
		t.Fatalf("expected 1 focused goal, got %d", len(goals.Focused))
	}

	g := goals.Focused[0]
	if g.Name != "3" {
		t.Fatalf("unexpected goal name: %q", g.Name)
	}
	if len(g.Hypotheses) != 2 {
		t.Fatalf("expected 2 hypotheses, got %d: %+v", len(g.Hypotheses), g.Hypotheses)
	}
	if got := g.Hypotheses[0].String(); got != "n : nat" {
		t.Fatalf("first hypothesis: got %q", got)
	}
	if g.Hypotheses[0][1].Kind != PartType || g.Hypotheses[0][1].Text != "nat" {
		t.Fatalf("expected the hypothesis type annotation to survive, got %+v", g.Hypotheses[0])
	}
	if got := g.Hypotheses[1].String(); got != "H : n > 0" {
		t.Fatalf("second hypothesis: got %q", got)
	}
	if got := g.Conclusion.String(); got != "n + 1 > 0" {
		t.Fatalf("conclusion: got %q", got)
	}
	if len(goals.Background) != 0 || len(goals.Shelved) != 0 || len(goals.GivenUp) != 0 {
		t.Fatalf("expected the secondary goal lists to be empty, got %+v", goals)
	}
}

func TestRichPPDecoding(t *testing.T) {
	wire := `<richpp><_><pp>Error: <constr.keyword>Qed</constr.keyword> failed.</pp></_></richpp>`
	n := decodeOneNode(t, wire)
	parts, err := DecodeRichPP(n)
	if err != nil {
		t.Fatalf("DecodeRichPP: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %+v", len(parts), parts)
	}
	if parts[0].Kind != PartRaw || parts[0].Text != "Error: " {
		t.Fatalf("unexpected first part: %+v", parts[0])
	}
	if parts[1].Kind != PartKeyword || parts[1].Text != "Qed" {
		t.Fatalf("unexpected second part: %+v", parts[1])
	}
	if parts[2].Kind != PartRaw || parts[2].Text != " failed." {
		t.Fatalf("unexpected third part: %+v", parts[2])
	}
	if got := parts.String(); got != "Error: Qed failed." {
		t.Fatalf("RichPP.String() = %q", got)
	}
}
