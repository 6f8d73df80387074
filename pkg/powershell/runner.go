package powershell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// Command is a fully encoded subprocess invocation: the interpreter path and
// its ordered argument vector, ready for process creation.
type Command struct {
	Path string
	Args []string
}

// BuildCommand wraps a script body and its encoded argument fragment into a
// non-interactive interpreter invocation. The script runs as an anonymous
// script block so its param() declarations bind to the encoded flags.
func BuildCommand(interpreter, script, argFragment string) Command {
	body := "& { " + script + " }"
	if argFragment != "" {
		body += " " + argFragment
	}
	return Command{
		Path: interpreter,
		Args: []string{"-NoProfile", "-NonInteractive", "-Command", body},
	}
}

// Outcome is the complete record of one subprocess execution. Exactly one
// Outcome is produced per invocation; the process has always been waited on
// (or killed) by the time Run returns it.
type Outcome struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	TimedOut bool
	// SpawnErr is set when the process could not be started at all
	// (interpreter missing, permission denied). It is mutually exclusive
	// with a meaningful ExitCode.
	SpawnErr error
	Elapsed  time.Duration
}

// Runner executes interpreter invocations to completion. It never returns
// errors directly; every failure mode is expressed through Outcome fields so
// callers classify rather than catch.
type Runner struct {
	// MaxStdout and MaxStderr cap how many bytes of each stream are kept.
	// The streams keep draining past the cap so the subprocess never blocks
	// on a full pipe.
	MaxStdout int
	MaxStderr int
	Logger    *slog.Logger
}

const (
	// DefaultMaxStdout bounds the structured payload; diagnostic documents
	// larger than this indicate a script emitting raw dumps.
	DefaultMaxStdout = 4 << 20
	// DefaultMaxStderr bounds diagnostic chatter kept for error reporting.
	DefaultMaxStderr = 64 << 10

	// killGrace is how long Wait may linger on output pipes after the
	// process dies before they are abandoned. This matters when a helper
	// process inherited the pipes and outlives the kill for a moment.
	killGrace = 3 * time.Second
)

// NewRunner returns a Runner with default stream caps.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{MaxStdout: DefaultMaxStdout, MaxStderr: DefaultMaxStderr, Logger: logger}
}

// Run spawns cmd with stdin unused and stdout/stderr captured as independent
// streams, enforcing timeout. The subprocess runs as its own process group;
// on expiry or ctx cancellation (server shutdown) the entire group is killed,
// so helper processes a script spawned die with it, and the partial output is
// discarded: the structured payload is only valid when complete.
func (r *Runner) Run(ctx context.Context, cmd Command, timeout time.Duration) Outcome {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Stdin = nil
	// WaitDelay bounds Wait's pipe drain after the process dies, so an
	// orphan holding the inherited output fds cannot block the call.
	c.WaitDelay = killGrace
	killProcessGroup(c)

	outBuf := newCappedBuffer(r.MaxStdout)
	errBuf := newCappedBuffer(r.MaxStderr)
	c.Stdout = outBuf
	c.Stderr = errBuf

	if err := c.Start(); err != nil {
		return Outcome{ExitCode: -1, SpawnErr: err, Elapsed: time.Since(start)}
	}

	waitErr := c.Wait()
	elapsed := time.Since(start)
	timedOut := ctx.Err() == context.DeadlineExceeded

	exitCode := 0
	if waitErr != nil {
		switch {
		case errors.Is(waitErr, exec.ErrWaitDelay) && c.ProcessState != nil:
			// The process itself exited; only the pipe drain was abandoned.
			exitCode = c.ProcessState.ExitCode()
		default:
			if ee, ok := waitErr.(*exec.ExitError); ok && ee.ProcessState != nil {
				exitCode = ee.ProcessState.ExitCode()
			} else {
				exitCode = -1
			}
		}
	}

	r.Logger.Debug("subprocess finished",
		"path", cmd.Path,
		"exit", exitCode,
		"timed_out", timedOut,
		"elapsed", elapsed,
		"stdout_bytes", outBuf.Len(),
		"stderr_bytes", errBuf.Len(),
	)

	if timedOut {
		// A killed script's buffered output is a truncated document; keep
		// nothing rather than something half-valid.
		return Outcome{ExitCode: exitCode, TimedOut: true, Elapsed: elapsed}
	}

	return Outcome{
		ExitCode: exitCode,
		Stdout:   outBuf.Bytes(),
		Stderr:   errBuf.Bytes(),
		Elapsed:  elapsed,
	}
}

// cappedBuffer keeps the first max bytes written and accepts the rest
// without storing it, so a verbose subprocess neither blocks nor balloons
// memory. Each stream gets its own buffer; exec writes to each from a single
// goroutine.
type cappedBuffer struct {
	max int
	buf bytes.Buffer
}

func newCappedBuffer(max int) *cappedBuffer { return &cappedBuffer{max: max} }

func (b *cappedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if room := b.max - b.buf.Len(); room > 0 {
		if n > room {
			p = p[:room]
		}
		b.buf.Write(p)
	}
	return n, nil
}

func (b *cappedBuffer) Bytes() []byte { return b.buf.Bytes() }
func (b *cappedBuffer) Len() int      { return b.buf.Len() }
