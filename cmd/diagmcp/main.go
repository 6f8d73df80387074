// Binary diagmcp is a local MCP server exposing Windows diagnostic tools.
// Each tool call runs a PowerShell script as a subprocess and returns its
// structured output as formatted text.
//
// Usage:
//
//	diagmcp [flags]
//
// Flags:
//
//	-config       path to YAML config file (default: diagmcp.yaml)
//	-interpreter  override the PowerShell binary
//	-http         also serve JSON-RPC over HTTP on this address
//	-timeout      override the per-call timeout in seconds
//	-version      print version and exit
//
// The protocol is served on stdin/stdout; all logging goes to stderr so the
// protocol stream stays clean.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/config"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/diag"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/mcp"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/powershell"
	"github.com/jackalterman/windows-diagnostic-mcp-server-sub000/pkg/tools"
)

const (
	serverName    = "windows-diagnostic-mcp"
	serverVersion = "0.3.0"
	defaultConfig = "diagmcp.yaml"
)

func main() {
	configPath := flag.String("config", defaultConfig, "path to server config file")
	interpreterFlag := flag.String("interpreter", "", "override the PowerShell binary")
	httpFlag := flag.String("http", "", "also serve JSON-RPC over HTTP on this address")
	timeoutFlag := flag.Int("timeout", 0, "override the per-call timeout in seconds")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", serverName, serverVersion)
		return
	}

	// A missing config file is only an error when the user pointed at one.
	cfg, err := config.Load(*configPath, *configPath != defaultConfig)
	if err != nil {
		fatalf("%v", err)
	}
	if *interpreterFlag != "" {
		cfg.Interpreter = *interpreterFlag
	}
	if *timeoutFlag > 0 {
		cfg.TimeoutSeconds = *timeoutFlag
	}
	if *httpFlag != "" {
		cfg.HTTP.Addr = *httpFlag
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))

	interpreter, found := powershell.ResolveInterpreter(cfg.Interpreter)
	if found {
		logger.Info("interpreter resolved", "path", interpreter)
	} else {
		// Start anyway: tools/list must work, and each call will surface a
		// specific environment error instead.
		logger.Warn("no PowerShell interpreter found on PATH; tool calls will fail", "tried", interpreter)
	}

	runner := powershell.NewRunner(logger)
	runner.MaxStdout = cfg.MaxStdoutBytes
	runner.MaxStderr = cfg.MaxStderrBytes

	bridge := diag.NewBridge(interpreter, cfg.Timeout(), runner)
	reg := tools.NewRegistry()
	diag.RegisterAll(reg, bridge)

	srv := mcp.NewServer(reg, serverName, serverVersion, logger)
	logger.Info("server starting",
		"version", serverVersion,
		"tools", reg.Len(),
		"timeout", cfg.Timeout(),
	)

	// SIGINT/SIGTERM cancel the root context: the stdio loop stops reading
	// and every in-flight subprocess is killed through its call context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HTTP.Addr != "" {
		go func() {
			if err := mcp.ServeHTTP(ctx, cfg.HTTP.Addr, srv, logger); err != nil {
				logger.Error("http transport failed", "error", err)
			}
		}()
	}

	transport := mcp.NewStdioTransport(srv, os.Stdin, os.Stdout, logger)
	if err := transport.Serve(ctx); err != nil {
		fatalf("stdio transport: %v", err)
	}
	logger.Info("server stopped")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
