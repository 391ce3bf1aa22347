package bridge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"

	"github.com/google/uuid"

	"github.com/igoryan-dao/coqd/internal/store"
)

// InternalChannelCapacity is the default bound on the internal
// re-injection channel.
const InternalChannelCapacity = 10000

// internalEvent is one entry on the bridge's internal re-injection
// channel. Exactly one of call or stmt is set: call is a fully-built
// call ready to dispatch as-is (a Fail's BackTo resynchronisation);
// stmt is a move-to-synthesized statement still awaiting classification,
// deferred until Next actually pops it so it reads the store's tip as
// of that moment rather than the tip at the time move-to arrived.
type internalEvent struct {
	call *PendingCall
	stmt *pendingStatement
}

// pendingStatement is one statement from a move-to command not yet
// classified against the store.
type pendingStatement struct {
	stmt   Statement
	append bool
}

// Bridge reads framed editor commands from a stream socket connection
// and multiplexes them with an internal re-injection channel that lets
// the response processor schedule further backend calls (e.g. a BackTo
// resynchronisation after a Fail). The internal channel is favoured
// whenever both have work, per the biased-select requirement.
type Bridge struct {
	store    *store.Store
	internal chan internalEvent
	lines    chan string
	readErrs chan error
}

// NewBridge wires a Bridge to conn and starts the background line reader.
func NewBridge(conn net.Conn, s *store.Store) *Bridge {
	b := &Bridge{
		store:    s,
		internal: make(chan internalEvent, InternalChannelCapacity),
		lines:    make(chan string),
		readErrs: make(chan error, 1),
	}
	go b.readLines(conn)
	return b
}

func (b *Bridge) readLines(conn net.Conn) {
	defer close(b.lines)
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			b.lines <- line
		}
		if err != nil {
			if err != io.EOF {
				b.readErrs <- fmt.Errorf("bridge: read editor command: %w", err)
			}
			return
		}
	}
}

// Reinject schedules call onto the internal channel, to be dispatched
// as-is ahead of any pending external command. A full channel
// logs and drops the call rather than blocking: a daemon that cannot
// keep up with its own re-injected work has a deeper problem than this
// queue can paper over.
func (b *Bridge) Reinject(call PendingCall) {
	if call.CorrelationID == "" {
		call.CorrelationID = uuid.NewString()
	}
	select {
	case b.internal <- internalEvent{call: &call}:
	default:
		log.Printf("bridge: internal re-injection channel full, dropping %s %+v", call.CorrelationID, call.Call)
	}
}

// reinjectStatement schedules one move-to-synthesized statement for
// lazy classification, deferred to the moment Next pops it off the
// internal channel (see internalEvent).
func (b *Bridge) reinjectStatement(stmt Statement, append bool) {
	select {
	case b.internal <- internalEvent{stmt: &pendingStatement{stmt: stmt, append: append}}:
	default:
		log.Printf("bridge: internal re-injection channel full, dropping move-to statement %+v", stmt)
	}
}

// Event is one unit of work the main loop dispatches.
type Event struct {
	Classification Classification
	FromInternal   bool
}

// Next blocks until the next event is available, favouring the internal
// channel whenever it has pending work.
func (b *Bridge) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-b.internal:
		return b.resolveInternal(ev), nil
	default:
	}

	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case ev := <-b.internal:
		return b.resolveInternal(ev), nil
	case err := <-b.readErrs:
		return Event{}, err
	case line, ok := <-b.lines:
		if !ok {
			return Event{}, io.EOF
		}
		return b.classifyLine(line), nil
	}
}

// resolveInternal turns a popped internalEvent into a dispatchable Event.
// A move-to statement is classified here, against the store's tip as of
// this moment, not when move-to originally arrived: by the time the
// 2nd..Nth statement is popped, the prior statement has already
// round-tripped through the main loop and advanced the tip, so each
// statement's Add carries its true parent state id.
func (b *Bridge) resolveInternal(ev internalEvent) Event {
	if ev.call != nil {
		return Event{Classification: Classification{Call: ev.call}, FromInternal: true}
	}
	c := Classify(Command{Kind: CmdNext, Range: ev.stmt.stmt.Range, Code: ev.stmt.stmt.Code}, b.store)
	if c.Call != nil {
		c.Call.Append = ev.stmt.append
		c.Call.CorrelationID = uuid.NewString()
	}
	return Event{Classification: c, FromInternal: true}
}

// classifyLine parses line, tolerating junk: on a parse failure, the
// line is advanced one byte at a time
// until a valid command is found or it is exhausted, each skipped byte
// logged rather than treated as fatal.
func (b *Bridge) classifyLine(line string) Event {
	for len(line) > 0 {
		cmd, err := ParseCommand(line)
		if err == nil {
			if cmd.Kind == CmdMoveTo {
				b.expandMoveTo(cmd)
				return Event{Classification: Classification{}}
			}
			return Event{Classification: Classify(cmd, b.store)}
		}
		log.Printf("bridge: EditorCommandParse: %v (skipping one byte)", err)
		line = line[1:]
	}
	return Event{Classification: Classification{}}
}

// expandMoveTo schedules one "next" per statement named in a move-to
// command, re-injecting each onto the internal channel so they
// are dispatched ahead of any subsequent external command: the first has
// Append=false, the rest Append=true. Each statement is classified lazily
// by resolveInternal at the moment it is actually popped, not here, so
// the 2nd..Nth statement's Add reads the tip the previous statement just
// produced instead of the tip from before move-to ran.
func (b *Bridge) expandMoveTo(cmd Command) {
	if b.store.Status() != store.StatusOk {
		return
	}
	for i, stmt := range cmd.Statements {
		b.reinjectStatement(stmt, i > 0)
	}
}
