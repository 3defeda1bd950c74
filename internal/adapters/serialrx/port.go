package serialrx

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.bug.st/serial"
)

// Port adapts a serial device to the line-oriented Transport port. Reads
// use a bounded wait so the ingestion loop can observe its stop signal:
// when the wait elapses without completing a line, ReadLine returns
// ("", nil) and keeps the partial line for the next call.
type Port struct {
	name        string
	baud        int
	readTimeout time.Duration

	port    serial.Port
	pending []byte
	buf     []byte
}

// New creates an unopened serial transport for the given port name and
// baud rate.
func New(name string, baud int, readTimeout time.Duration) *Port {
	return &Port{
		name:        name,
		baud:        baud,
		readTimeout: readTimeout,
		buf:         make([]byte, 256),
	}
}

// Open opens the device once at startup. Failure here is fatal for the
// pipeline and is not retried.
func (p *Port) Open() error {
	mode := &serial.Mode{BaudRate: p.baud}
	port, err := serial.Open(p.name, mode)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.name, err)
	}
	if err := port.SetReadTimeout(p.readTimeout); err != nil {
		port.Close()
		return fmt.Errorf("set read timeout on %s: %w", p.name, err)
	}
	p.port = port
	slog.Info("Opened serial port", "port", p.name, "baud", p.baud)
	return nil
}

// ReadLine returns the next newline-terminated line without its line
// ending, or ("", nil) when the read timeout elapses first.
func (p *Port) ReadLine() (string, error) {
	for {
		if i := bytes.IndexByte(p.pending, '\n'); i >= 0 {
			line := string(p.pending[:i])
			p.pending = append(p.pending[:0], p.pending[i+1:]...)
			return strings.TrimSuffix(line, "\r"), nil
		}

		n, err := p.port.Read(p.buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			// Read timeout; the partial line stays pending.
			return "", nil
		}
		p.pending = append(p.pending, p.buf[:n]...)
	}
}

// Close releases the device.
func (p *Port) Close() error {
	if p.port == nil {
		return nil
	}
	return p.port.Close()
}
