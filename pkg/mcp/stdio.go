package mcp

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"
)

// maxLineBytes bounds one incoming protocol line. Tool arguments are small;
// anything beyond this is a framing defect on the caller's side.
const maxLineBytes = 4 << 20

// StdioTransport serves newline-delimited JSON-RPC over a reader/writer
// pair, normally stdin/stdout. Requests are dispatched concurrently (each
// call may hold a subprocess open for seconds) while writes to the output
// stream are serialized.
type StdioTransport struct {
	srv    *Server
	in     io.Reader
	out    io.Writer
	logger *slog.Logger

	mu sync.Mutex // guards out
}

// NewStdioTransport wraps srv for stdio serving. logger may be nil.
func NewStdioTransport(srv *Server, in io.Reader, out io.Writer, logger *slog.Logger) *StdioTransport {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StdioTransport{srv: srv, in: in, out: out, logger: logger}
}

// Serve reads messages until EOF or ctx cancellation and waits for all
// in-flight calls to finish before returning. Cancelling ctx also kills the
// subprocess behind every in-flight call, so shutdown never leaks a running
// interpreter.
func (t *StdioTransport) Serve(ctx context.Context) error {
	// Reads happen on their own goroutine so cancellation can unblock Serve
	// even while the input is idle. When that happens the reader stays
	// parked on its final read; the process is exiting and the input is its
	// lifetime resource, so nothing is leaked that the exit doesn't reclaim.
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var wg conc.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			wg.Go(func() {
				resp := t.srv.Handle(ctx, line)
				if resp == nil {
					return
				}
				t.write(resp)
			})
		}
	}
}

func (t *StdioTransport) write(resp []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.out.Write(append(resp, '\n')); err != nil {
		t.logger.Error("write response", "error", err)
	}
}
