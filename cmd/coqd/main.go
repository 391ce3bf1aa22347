// Command coqd is the proof-assistant bridge daemon: it speaks the
// line-terminated editor command grammar on a local stream socket,
// translates commands into XML calls against a Coq batch backend, and
// reports UI-update commands describing how the editor should redraw.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/igoryan-dao/coqd/internal/backend"
	"github.com/igoryan-dao/coqd/internal/bridge"
	"github.com/igoryan-dao/coqd/internal/paths"
	"github.com/igoryan-dao/coqd/internal/process"
	"github.com/igoryan-dao/coqd/internal/protocol"
	"github.com/igoryan-dao/coqd/internal/store"
	"github.com/igoryan-dao/coqd/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "coqd <client-id> <session-id> <source-file> <tmp-dir> <input-fifo>",
	Short: "Bridge an editor to a Coq proof-assistant backend",
	Args:  cobra.ExactArgs(5),
	RunE:  run,
}

var backendPath string

func init() {
	rootCmd.Flags().StringVar(&backendPath, "backend", "coqtop", "path to the proof-assistant backend executable")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) error {
	clientID, sessionID, sourceFile, tmpDir, inputFifo := args[0], args[1], args[2], args[3], args[4]

	layout := paths.NewLayout(tmpDir)
	if err := layout.Prepare(); err != nil {
		return err
	}
	lock, err := layout.Lock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	logFile, err := os.OpenFile(layout.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", layout.LogFile, err)
	}
	defer logFile.Close()
	logger := newDiagnosticLogger(logFile)
	logger.Printf("coqd: starting for client %s session %s", clientID, sessionID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGUSR1 is the cooperative interrupt signal, distinct from the
	// SIGINT/SIGTERM shutdown above: it aborts only the in-flight Ask.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGUSR1)
	defer signal.Stop(interrupt)

	var extraArgs []string
	if cfgPath, ok := backend.FindProjectConfig(sourceFileDir(sourceFile)); ok {
		flags, err := backend.ParseProjectConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("parse project config %s: %w", cfgPath, err)
		}
		extraArgs = flags
		logger.Printf("coqd: using project config %s", cfgPath)
	}

	transport, err := backend.Launch(ctx, backend.Options{
		BackendPath: backendPath,
		TopFile:     sourceFile,
		ExtraArgs:   extraArgs,
	})
	if err != nil {
		return fmt.Errorf("launch backend: %w", err)
	}
	defer transport.Close()

	os.Remove(layout.CmdSocket)
	listener, err := net.Listen("unix", layout.CmdSocket)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", layout.CmdSocket, err)
	}
	defer listener.Close()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("accept editor connection: %w", err)
	}
	defer conn.Close()

	// The editor's input fifo is the daemon->editor control channel;
	// opening it write-only blocks until the editor opens its end.
	control, err := os.OpenFile(inputFifo, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open editor control fifo %s: %w", inputFifo, err)
	}
	defer control.Close()

	proofStore := store.New()
	editorBridge := bridge.NewBridge(conn, proofStore)
	emitter := ui.NewEmitter(control, layout.ResultFile, layout.GoalFile)
	processor := process.New(proofStore, editorBridge.Reinject)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mainLoop(gctx, logger, editorBridge, transport, processor, emitter, interrupt)
	})

	if err := g.Wait(); err != nil && gctx.Err() == nil {
		logger.Printf("coqd: fatal: %v", err)
		return err
	}
	return nil
}

// mainLoop is the daemon's control loop: pull one event, apply any
// immediate UI updates, optionally issue the backend call, route the
// response and feedback through the processor, and apply the resulting
// updates. interrupt carries the cooperative interrupt signal:
// distinct from ctx's shutdown cancellation, it
// only aborts the in-flight Ask and moves the store to Interrupted
// rather than tearing the daemon down.
func mainLoop(ctx context.Context, logger *log.Logger, b *bridge.Bridge, t *backend.Transport, p *process.Processor, e *ui.Emitter, interrupt <-chan os.Signal) error {
	for {
		event, err := b.Next(ctx)
		if err != nil {
			return fmt.Errorf("bridge: %w", err)
		}
		cls := event.Classification
		if event.FromInternal && cls.Call != nil {
			logger.Printf("coqd: dispatching re-injected event %s (internal=%v)", cls.Call.CorrelationID, event.FromInternal)
		} else {
			logger.Printf("coqd: dispatching event (internal=%v)", event.FromInternal)
		}
		for _, u := range cls.Immediate {
			if err := e.Emit(u); err != nil {
				return fmt.Errorf("ui: %w", err)
			}
		}

		if cls.Quit {
			return nil
		}
		if cls.ClearsInt || cls.ClearsErr {
			// stop-interrupt and ignore-error both return the store to
			// Ok; ClearError covers the Interrupted -> Ok and
			// Error -> Ok transitions alike.
			p.ClearError()
			continue
		}
		if cls.Call == nil {
			continue
		}

		ask, err := askInterruptibly(ctx, t, cls.Call.Call, interrupt)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, errInterrupted) {
				logger.Printf("coqd: call interrupted, awaiting stop-interrupt")
				p.SetInterrupted()
				continue
			}
			return fmt.Errorf("backend ask: %w", err)
		}

		for _, u := range p.Handle(*cls.Call, ask) {
			if err := e.Emit(u); err != nil {
				return fmt.Errorf("ui: %w", err)
			}
		}
	}
}

// errInterrupted marks an Ask aborted by the cooperative interrupt
// signal rather than by daemon shutdown or a transport failure.
var errInterrupted = errors.New("ask interrupted")

// askInterruptibly runs one Ask, cancelling it (without cancelling ctx
// itself) if interrupt fires first.
func askInterruptibly(ctx context.Context, t *backend.Transport, call protocol.Call, interrupt <-chan os.Signal) (backend.Ask, error) {
	askCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-interrupt:
			cancel()
		case <-done:
		case <-askCtx.Done():
		}
	}()

	ask, err := t.Ask(askCtx, call)
	if err != nil && ctx.Err() == nil && askCtx.Err() != nil {
		return backend.Ask{}, errInterrupted
	}
	return ask, err
}

func sourceFileDir(sourceFile string) string {
	dir := sourceFile
	for i := len(dir) - 1; i >= 0; i-- {
		if dir[i] == '/' {
			return dir[:i]
		}
	}
	return "."
}

// newDiagnosticLogger builds the daemon's own diagnostic logger: it writes
// plain text to w (the log file), or, when stderr is a terminal, to stderr
// with a colored "coqd: " prefix. It never writes to the editor-facing
// control channel.
func newDiagnosticLogger(w *os.File) *log.Logger {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		p := termenv.ColorProfile()
		prefix := termenv.String("coqd: ").Foreground(p.Color("6")).String()
		return log.New(os.Stderr, prefix, log.LstdFlags)
	}
	return log.New(w, "coqd: ", log.LstdFlags)
}
