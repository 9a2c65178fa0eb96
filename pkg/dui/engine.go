// Package dui provides a Go client for communicating with DUI (Diplomacy
// Universal Interface) engines. It manages the engine subprocess, handles
// the protocol handshake, and provides methods for sending commands and
// parsing responses.
//
// Inspired by github.com/freeeve/uci for chess UCI engines, adapted for
// Diplomacy concepts (DFEN positions, DSON orders, 7 powers).
package dui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Engine wraps one DUI-compatible engine subprocess: its lifecycle,
// stdin for commands, and stdout for responses.
type Engine struct {
	path string
	args []string

	proc    *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner

	mu     sync.Mutex
	closed bool
	exited chan struct{}

	// Populated by Init during the handshake.
	ID      EngineID
	Options []EngineOption
}

// NewEngine returns an Engine bound to the given binary path. The
// subprocess isn't started until Init is called.
func NewEngine(path string, args ...string) *Engine {
	return &Engine{path: path, args: args}
}

// Init launches the subprocess and runs the DUI handshake (dui ->
// id/option/duiok, then isready -> readyok). ctx bounds the whole
// handshake.
func (e *Engine) Init(ctx context.Context) error {
	if err := e.spawn(ctx); err != nil {
		return fmt.Errorf("dui: start engine: %w", err)
	}
	if err := e.handshake(ctx); err != nil {
		e.Close()
		return fmt.Errorf("dui: handshake: %w", err)
	}
	return nil
}

// SetOption sends "setoption name <name> [value <value>]".
func (e *Engine) SetOption(name, value string) {
	if value != "" {
		e.send(fmt.Sprintf("setoption name %s value %s", name, value))
	} else {
		e.send(fmt.Sprintf("setoption name %s", name))
	}
}

// IsReady sends "isready" and blocks for "readyok", or until ctx is done.
// Use this to synchronize after SetOption or Position.
func (e *Engine) IsReady(ctx context.Context) error {
	e.send("isready")
	return e.awaitLine(ctx, "readyok")
}

// NewGame sends "newgame" to reset the engine's internal state.
func (e *Engine) NewGame() {
	e.send("newgame")
}

// Position sends "position <dfen>".
func (e *Engine) Position(dfen string) {
	e.send(fmt.Sprintf("position %s", dfen))
}

// SetPower sends "setpower <power>".
func (e *Engine) SetPower(power string) {
	e.send(fmt.Sprintf("setpower %s", power))
}

// Go sends a "go" command built from params and collects the engine's
// response — every "info" line plus the terminating "bestorders" — into
// a SearchResults. If ctx is canceled first, a "stop" command is sent and
// Go waits briefly for the forced bestorders reply.
func (e *Engine) Go(ctx context.Context, params GoParams) (*SearchResults, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("dui: engine is closed")
	}
	if !e.isAlive() {
		return nil, fmt.Errorf("dui: engine process is not running")
	}

	if suffix := params.String(); suffix != "" {
		e.send("go " + suffix)
	} else {
		e.send("go")
	}

	return e.awaitSearchResults(ctx)
}

// Stop sends "stop" to interrupt the current search.
func (e *Engine) Stop() {
	e.send("stop")
}

// Quit sends "quit" without waiting for the process to exit. Prefer
// Close for full cleanup.
func (e *Engine) Quit() {
	e.send("quit")
}

// Close sends "quit" and waits up to 3 seconds for the process to exit,
// then kills it if it hasn't.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	if e.stdin != nil {
		fmt.Fprintf(e.stdin, "quit\n")
	}
	e.closed = true
	e.mu.Unlock()

	if e.stdin != nil {
		e.stdin.Close()
	}

	if e.exited != nil {
		select {
		case <-e.exited:
		case <-time.After(3 * time.Second):
			log.Printf("dui: engine did not exit within 3s, killing")
			if e.proc != nil && e.proc.Process != nil {
				e.proc.Process.Kill()
			}
			<-e.exited
		}
	}
	return nil
}

// spawn starts the subprocess and wires up its stdin/stdout pipes.
func (e *Engine) spawn(ctx context.Context) error {
	e.proc = exec.CommandContext(ctx, e.path, e.args...)

	var err error
	e.stdin, err = e.proc.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := e.proc.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	e.scanner = bufio.NewScanner(stdout)
	e.exited = make(chan struct{})

	if err := e.proc.Start(); err != nil {
		return fmt.Errorf("start process: %w", err)
	}

	go func() {
		e.proc.Wait()
		close(e.exited)
	}()

	return nil
}

// handshake runs the DUI startup sequence: "dui" -> id/option lines ->
// "duiok", then "isready" -> "readyok".
func (e *Engine) handshake(ctx context.Context) error {
	e.send("dui")
	if err := e.awaitHandshakeLines(ctx); err != nil {
		return fmt.Errorf("waiting for duiok: %w", err)
	}

	e.send("isready")
	if err := e.awaitLine(ctx, "readyok"); err != nil {
		return fmt.Errorf("waiting for readyok: %w", err)
	}

	return nil
}

// awaitHandshakeLines reads and classifies lines until "duiok" arrives,
// populating ID and Options along the way.
func (e *Engine) awaitHandshakeLines(ctx context.Context) error {
	done := make(chan error, 1)

	go func() {
		for e.scanner.Scan() {
			line := e.scanner.Text()

			switch {
			case strings.HasPrefix(line, "id name "):
				e.ID.Name = strings.TrimPrefix(line, "id name ")
			case strings.HasPrefix(line, "id author "):
				e.ID.Author = strings.TrimPrefix(line, "id author ")
			case strings.HasPrefix(line, "protocol_version "):
				fmt.Sscanf(strings.TrimPrefix(line, "protocol_version "), "%d", &e.ID.ProtocolVersion)
			case strings.HasPrefix(line, "option "):
				e.Options = append(e.Options, parseEngineOption(line))
			case line == "duiok":
				done <- nil
				return
			}
		}
		done <- e.scanFailure("duiok")
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("context canceled: %w", ctx.Err())
	}
}

// awaitSearchResults reads lines emitted during a "go" search, collecting
// info lines until "bestorders" arrives. On context cancellation it sends
// "stop" and gives the engine a short grace period to respond.
func (e *Engine) awaitSearchResults(ctx context.Context) (*SearchResults, error) {
	type outcome struct {
		sr  *SearchResults
		err error
	}

	done := make(chan outcome, 1)
	go func() {
		sr := &SearchResults{}
		for e.scanner.Scan() {
			line := e.scanner.Text()
			if strings.HasPrefix(line, "bestorders ") {
				sr.BestOrders = strings.TrimPrefix(line, "bestorders ")
				done <- outcome{sr: sr}
				return
			}
			if strings.HasPrefix(line, "info ") {
				sr.Infos = append(sr.Infos, parseInfo(line))
			}
		}
		done <- outcome{err: e.scanFailure("bestorders")}
	}()

	select {
	case r := <-done:
		return r.sr, r.err
	case <-ctx.Done():
		e.send("stop")
		select {
		case r := <-done:
			return r.sr, r.err
		case <-time.After(2 * time.Second):
			return nil, fmt.Errorf("dui: engine did not respond to stop within 2s")
		}
	}
}

// awaitLine reads lines, discarding anything that isn't expected, until
// expected is seen or ctx ends.
func (e *Engine) awaitLine(ctx context.Context, expected string) error {
	done := make(chan error, 1)

	go func() {
		for e.scanner.Scan() {
			if e.scanner.Text() == expected {
				done <- nil
				return
			}
		}
		done <- e.scanFailure(expected)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("context canceled waiting for %q: %w", expected, ctx.Err())
	}
}

// scanFailure builds the error for a scanner loop that ended (EOF or
// error) before producing wanted.
func (e *Engine) scanFailure(wanted string) error {
	if err := e.scanner.Err(); err != nil {
		return fmt.Errorf("scanner: %w", err)
	}
	return fmt.Errorf("engine closed stdout before sending %q", wanted)
}

// send writes one command line to the engine's stdin.
func (e *Engine) send(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.stdin == nil {
		return
	}
	fmt.Fprintf(e.stdin, "%s\n", line)
}

// isAlive reports whether the subprocess is still running.
func (e *Engine) isAlive() bool {
	if e.exited == nil {
		return false
	}
	select {
	case <-e.exited:
		return false
	default:
		return true
	}
}
