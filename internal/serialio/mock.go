package serialio

import (
	"bytes"
	"errors"
	"sync"
)

// TestablePort implements Porter with in-memory buffers and configurable
// failures for unit tests.
type TestablePort struct {
	mu sync.Mutex

	readBuf  bytes.Buffer
	writeBuf bytes.Buffer

	// ReadError is returned by the next Read call if set, then cleared.
	ReadError error
	// WriteError is returned by the next Write call if set, then cleared.
	WriteError error
	// CloseError is returned by Close if set.
	CloseError error

	closed   bool
	readCond *sync.Cond
	blocking bool
}

// NewTestablePort creates an empty in-memory port. When blocking is true,
// Read waits for data instead of returning io.EOF-style empty reads; that
// mode keeps a bufio.Scanner alive across AddReadData calls.
func NewTestablePort(blocking bool) *TestablePort {
	p := &TestablePort{blocking: blocking}
	p.readCond = sync.NewCond(&p.mu)
	return p
}

func (p *TestablePort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ReadError != nil {
		err := p.ReadError
		p.ReadError = nil
		return 0, err
	}

	if p.blocking {
		for !p.closed && p.readBuf.Len() == 0 {
			p.readCond.Wait()
		}
	}
	if p.closed {
		return 0, errors.New("serial port closed")
	}

	return p.readBuf.Read(buf)
}

func (p *TestablePort) Write(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.WriteError != nil {
		err := p.WriteError
		p.WriteError = nil
		return 0, err
	}
	if p.closed {
		return 0, errors.New("serial port closed")
	}

	return p.writeBuf.Write(buf)
}

func (p *TestablePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.readCond.Broadcast()
	return p.CloseError
}

// AddReadData queues data for subsequent Read calls.
func (p *TestablePort) AddReadData(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.readBuf.Write(data)
	p.readCond.Signal()
}

// Written returns a copy of everything written to the port so far.
func (p *TestablePort) Written() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]byte, p.writeBuf.Len())
	copy(out, p.writeBuf.Bytes())
	return out
}
