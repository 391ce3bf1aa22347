// Package backend launches the Coq batch backend as a child process and
// exposes a request/response "ask" primitive over its stdio.
package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/igoryan-dao/coqd/internal/protocol"
)

// Ask is the result of one round-trip call: the terminal response paired
// with every feedback node observed while the call was in flight, in
// arrival order.
type Ask struct {
	Response protocol.Result
	Feedback []protocol.Feedback
}

// Transport owns the backend child process and serializes calls onto its
// stdin, demultiplexing stdout into responses and feedback for whichever
// call is currently outstanding.
//
// The protocol has no request ids of its own: the backend processes
// calls strictly in order and emits exactly one response per call, with
// zero or more feedback nodes interleaved beforehand. So only one call
// may be outstanding at a time; Ask enforces this with a mutex rather
// than a map of pending requests.
type Transport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser

	dec *protocol.Decoder

	askMu sync.Mutex

	readMu   sync.Mutex
	closed   bool
	closedMu sync.Mutex
}

// Options configures how the backend child process is launched.
type Options struct {
	// BackendPath is the path to the Coq batch backend executable.
	BackendPath string
	// TopFile is the -topfile argument.
	TopFile string
	// ExtraArgs are per-project flags returned by ParseProjectConfig, in
	// order (e.g. "-R", "dir", "Logical.Name", ...).
	ExtraArgs []string
}

// Launch starts the backend child process and returns a Transport wired
// to its stdio.
func Launch(ctx context.Context, opts Options) (*Transport, error) {
	args := append([]string{"-main-channel", "stdfds", "-topfile", opts.TopFile}, opts.ExtraArgs...)
	cmd := exec.CommandContext(ctx, opts.BackendPath, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("backend stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("backend stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start backend %s: %w", opts.BackendPath, err)
	}

	return &Transport{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		dec:    protocol.NewDecoder(),
	}, nil
}

// Close kills the backend child process and releases its stdio. Safe to
// call more than once.
func (t *Transport) Close() error {
	t.closedMu.Lock()
	if t.closed {
		t.closedMu.Unlock()
		return nil
	}
	t.closed = true
	t.closedMu.Unlock()

	_ = t.stdin.Close()
	_ = t.stdout.Close()
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
	return t.cmd.Wait()
}

// Ask sends call to the backend and blocks until the terminal response
// arrives, collecting any feedback observed in between. Only one Ask may
// run at a time; concurrent callers serialize on it, matching the
// single-threaded cooperative scheduling model this transport is used
// under.
//
// If ctx is cancelled while the call is in flight, Ask forwards an
// interrupt to the backend (best-effort) and returns ctx.Err().
func (t *Transport) Ask(ctx context.Context, call protocol.Call) (Ask, error) {
	t.askMu.Lock()
	defer t.askMu.Unlock()

	wire := protocol.EncodeCall(call)
	if _, err := io.WriteString(t.stdin, wire); err != nil {
		return Ask{}, fmt.Errorf("write call to backend: %w", err)
	}

	type result struct {
		ask Ask
		err error
	}
	done := make(chan result, 1)
	go func() {
		ask, err := t.collect()
		done <- result{ask, err}
	}()

	select {
	case <-ctx.Done():
		t.interrupt()
		return Ask{}, ctx.Err()
	case r := <-done:
		return r.ask, r.err
	}
}

// collect reads protocol nodes from the backend until a terminal
// <value> response node arrives, accumulating feedback in between.
func (t *Transport) collect() (Ask, error) {
	t.readMu.Lock()
	defer t.readMu.Unlock()

	var feedback []protocol.Feedback
	buf := make([]byte, 4096)
	for {
		node, ok, err := t.dec.Next()
		if err != nil {
			return Ask{}, fmt.Errorf("decode backend output: %w", err)
		}
		if !ok {
			n, rerr := t.stdout.Read(buf)
			if n > 0 {
				t.dec.Feed(buf[:n])
			}
			if rerr != nil {
				return Ask{}, fmt.Errorf("read backend stdout: %w", rerr)
			}
			continue
		}

		switch node.Name {
		case "value":
			res, err := protocol.DecodeResult(node)
			if err != nil {
				return Ask{}, err
			}
			return Ask{Response: *res, Feedback: feedback}, nil
		case "feedback":
			fb, err := protocol.DecodeFeedback(node)
			if err != nil {
				return Ask{}, err
			}
			feedback = append(feedback, *fb)
		default:
			// Unrecognised top-level node; ignore rather than fail the
			// whole session over a forward-compatible addition.
		}
	}
}

// interrupt signals the backend child to abandon its current
// computation. Coqtop historically treats SIGINT on its process group as
// a cooperative interrupt request.
func (t *Transport) interrupt() {
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Signal(os.Interrupt)
	}
}
