package protocol

// FeedbackKind distinguishes the kinds of feedback content the backend emits.
type FeedbackKind uint8

const (
	FeedbackProcessed FeedbackKind = iota
	FeedbackMessage
	FeedbackWorkerStatus
	FeedbackProcessing
	FeedbackAddedAxiom
	FeedbackFileLoaded
)

// Feedback is an asynchronous notification tied to a state id rather than
// to a particular call's response.
type Feedback struct {
	Object string
	Route  int
	State  int
	Kind   FeedbackKind

	// Message
	Level MessageLevel
	Text  RichPP

	// WorkerStatus / Processing
	Node string

	// FileLoaded
	FileName string
	FilePath string
}

// DecodeFeedback interprets a top-level <feedback object=.. route=..> node.
func DecodeFeedback(n *Node) (*Feedback, error) {
	if n.Name != "feedback" {
		return nil, newDecodeError(InvalidFeedback, "expected <feedback>, got <%s>", n.Name)
	}
	object, _ := n.Attr("object")
	route, err := attrInt(n, "route")
	if err != nil {
		return nil, newDecodeError(InvalidFeedback, "%v", err)
	}
	kids := n.Elements()
	if len(kids) != 2 {
		return nil, newDecodeError(InvalidFeedback, "<feedback> expects 2 children, got %d", len(kids))
	}
	sidVal, err := DecodeValue(kids[0])
	if err != nil {
		return nil, err
	}
	sid, ok := sidVal.AsStateId()
	if !ok {
		return nil, newDecodeError(InvalidFeedback, "<feedback> first child is not a state_id")
	}

	fb := &Feedback{Object: object, Route: route, State: sid}
	content := kids[1]
	switch content.Name {
	case "processed":
		fb.Kind = FeedbackProcessed
	case "addedaxiom":
		fb.Kind = FeedbackAddedAxiom
	case "workerstatus":
		fb.Kind = FeedbackWorkerStatus
		fb.Node = content.Text()
	case "processingin":
		fb.Kind = FeedbackProcessing
		fb.Node = content.Text()
	case "message":
		fb.Kind = FeedbackMessage
		if err := decodeMessage(content, fb); err != nil {
			return nil, err
		}
	case "fileloaded":
		fb.Kind = FeedbackFileLoaded
		ckids := content.Elements()
		if len(ckids) != 2 {
			return nil, newDecodeError(InvalidFeedbackContent, "<fileloaded> expects 2 children, got %d", len(ckids))
		}
		nameVal, err := DecodeValue(ckids[0])
		if err != nil {
			return nil, err
		}
		pathVal, err := DecodeValue(ckids[1])
		if err != nil {
			return nil, err
		}
		name, ok1 := nameVal.AsStr()
		path, ok2 := pathVal.AsStr()
		if !ok1 || !ok2 {
			return nil, newDecodeError(InvalidFeedbackContent, "<fileloaded> fields are not strings")
		}
		fb.FileName, fb.FilePath = name, path
	default:
		return nil, newDecodeError(InvalidFeedbackContent, "unrecognized feedback content <%s>", content.Name)
	}
	return fb, nil
}

func decodeMessage(n *Node, fb *Feedback) error {
	kids := n.Elements()
	if len(kids) != 3 {
		return newDecodeError(InvalidFeedbackContent, "<message> expects 3 children, got %d", len(kids))
	}
	if kids[0].Name != "message_level" {
		return newDecodeError(InvalidFeedbackContent, "<message> expects <message_level> first, got <%s>", kids[0].Name)
	}
	levelStr, ok := kids[0].Attr("val")
	if !ok {
		return newDecodeError(InvalidFeedbackContent, "<message_level> is missing val")
	}
	level, ok := ParseMessageLevel(levelStr)
	if !ok {
		return newDecodeError(InvalidFeedbackContent, "unrecognized message level %q", levelStr)
	}
	fb.Level = level
	// kids[1] is an Opt(loc) we don't currently surface; kids[2] is the richpp.
	msg, err := DecodeRichPP(kids[2])
	if err != nil {
		return err
	}
	fb.Text = msg
	return nil
}
