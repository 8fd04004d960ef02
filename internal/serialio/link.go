package serialio

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"
)

// ErrWriteFailed reports a short write to the serial port.
var ErrWriteFailed = fmt.Errorf("failed to write to serial port")

// Link publishes newline-terminated telemetry payloads over a serial port and
// monitors the port for inbound host command lines.
type Link struct {
	port     Porter
	writeMu  sync.Mutex
	commands chan string
}

// NewLink wraps an open port.
func NewLink(port Porter) *Link {
	return &Link{
		port:     port,
		commands: make(chan string, 8),
	}
}

// SendLine writes one payload to the port, appending the newline terminator
// when missing. Safe for concurrent use.
func (l *Link) SendLine(payload string) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if !strings.HasSuffix(payload, "\n") {
		payload += "\n"
	}
	n, err := l.port.Write([]byte(payload))
	if err != nil {
		return err
	}
	if n != len(payload) {
		return ErrWriteFailed
	}
	return nil
}

// Commands returns the channel of inbound host command lines. Lines are
// trimmed and upper-cased; empty lines are dropped. The channel closes when
// Monitor returns.
func (l *Link) Commands() <-chan string {
	return l.commands
}

// Monitor reads command lines from the port until the context ends or the
// port fails. The blocking scanner runs in its own goroutine so context
// cancellation is honoured promptly.
func (l *Link) Monitor(ctx context.Context) error {
	scan := bufio.NewScanner(l.port)

	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			select {
			case scanErrChan <- err:
			case <-ctx.Done():
			}
		}
	}()

	defer close(l.commands)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			return err

		case line, ok := <-lineChan:
			if !ok {
				return scan.Err()
			}
			command := strings.ToUpper(strings.TrimSpace(line))
			if command == "" {
				continue
			}
			select {
			case l.commands <- command:
			default:
				// A slow consumer must not stall the read loop.
			}
		}
	}
}

// Close closes the underlying port.
func (l *Link) Close() error {
	return l.port.Close()
}
