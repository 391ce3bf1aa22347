package protocol

// DecodeRichPP interprets a <richpp> node (wrapping <_><pp>...</pp></_>)
// into an ordered Part list. It is also used directly on a
// <pp> node when the backend sends one without the outer wrapper, which
// some feedback messages do.
func DecodeRichPP(n *Node) (RichPP, error) {
	pp := findPP(n)
	if pp == nil {
		return nil, newDecodeError(InvalidRichPP, "<%s> does not contain a <pp> node", n.Name)
	}
	var parts RichPP
	collectParts(pp, &parts)
	return parts, nil
}

// findPP walks down through the <_> wrapper(s) coqtop emits looking for
// the innermost <pp> node.
func findPP(n *Node) *Node {
	if n.Name == "pp" {
		return n
	}
	for _, c := range n.Elements() {
		if found := findPP(c); found != nil {
			return found
		}
	}
	return nil
}

func collectParts(n *Node, out *RichPP) {
	for _, c := range n.Children {
		if c.IsText {
			if c.Text != "" {
				*out = append(*out, Part{Kind: PartRaw, Text: c.Text})
			}
			continue
		}
		kind, ok := richppTagKind[c.Node.Name]
		if !ok {
			// Unrecognized semantic tag: recurse into it so its text still
			// surfaces, just without a specific PartKind.
			collectParts(c.Node, out)
			continue
		}
		*out = append(*out, Part{Kind: kind, Text: c.Node.Text()})
	}
}
