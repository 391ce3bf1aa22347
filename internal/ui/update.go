// Package ui defines the editor-facing UI-update commands and the
// emitter that renders them to the editor's control channel.
package ui

import (
	"github.com/igoryan-dao/coqd/internal/protocol"
	"github.com/igoryan-dao/coqd/internal/textrange"
)

// UpdateKind names the kind of UI-update command.
type UpdateKind int

const (
	KindColorResult UpdateKind = iota
	KindRefreshErrorRange
	KindAddToProcessed
	KindAddAxiom
	KindRemoveProcessed
	KindRemoveToBeProcessed
	KindRemoveAxiom
	KindGotoTip
	KindOutputGoals
	KindShowStatus
)

// Update is one queued UI-update command. Only the fields relevant to
// Kind are populated.
type Update struct {
	Kind UpdateKind

	// ColorResult / RefreshErrorRange
	Message  protocol.RichPP
	Append   bool
	Force    bool
	HasRange bool
	Range    textrange.Range

	// AddToProcessed / AddAxiom / RemoveProcessed / RemoveToBeProcessed /
	// RemoveAxiom
	TargetRange textrange.Range

	// OutputGoals
	Focused    []protocol.Goal
	Background []protocol.GoalPair
	GivenUp    []protocol.Goal
	Shelved    []protocol.Goal

	// ShowStatus
	Path      string
	ProofName string
}

// ColorResult builds a KindColorResult update.
func ColorResult(msg protocol.RichPP, append bool) Update {
	return Update{Kind: KindColorResult, Message: msg, Append: append}
}

// RefreshErrorRange builds a KindRefreshErrorRange update. When r is
// absent, the error highlight is cleared.
func RefreshErrorRange(r *textrange.Range, force bool) Update {
	u := Update{Kind: KindRefreshErrorRange, Force: force}
	if r != nil {
		u.HasRange = true
		u.Range = *r
	}
	return u
}

// AddToProcessed builds a KindAddToProcessed update.
func AddToProcessed(r textrange.Range) Update {
	return Update{Kind: KindAddToProcessed, TargetRange: r}
}

// AddAxiom builds a KindAddAxiom update.
func AddAxiom(r textrange.Range) Update {
	return Update{Kind: KindAddAxiom, TargetRange: r}
}

// RemoveProcessed builds a KindRemoveProcessed update.
func RemoveProcessed(r textrange.Range) Update {
	return Update{Kind: KindRemoveProcessed, TargetRange: r}
}

// RemoveToBeProcessed builds a KindRemoveToBeProcessed update.
func RemoveToBeProcessed(r textrange.Range) Update {
	return Update{Kind: KindRemoveToBeProcessed, TargetRange: r}
}

// RemoveAxiom builds a KindRemoveAxiom update.
func RemoveAxiom(r textrange.Range) Update {
	return Update{Kind: KindRemoveAxiom, TargetRange: r}
}

// GotoTip builds a KindGotoTip update.
func GotoTip() Update { return Update{Kind: KindGotoTip} }

// OutputGoals builds a KindOutputGoals update.
func OutputGoals(focused []protocol.Goal, background []protocol.GoalPair, givenUp, shelved []protocol.Goal) Update {
	return Update{
		Kind:       KindOutputGoals,
		Focused:    focused,
		Background: background,
		GivenUp:    givenUp,
		Shelved:    shelved,
	}
}

// ShowStatus builds a KindShowStatus update.
func ShowStatus(path, proofName string) Update {
	return Update{Kind: KindShowStatus, Path: path, ProofName: proofName}
}
