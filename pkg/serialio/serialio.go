// Package serialio provides the serial emit sink for report output and
// serial port enumeration.
package serialio

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate is the standard baud rate of the operator terminal link.
const DefaultBaudRate = 115200

// Port represents an available serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Link is a write-only serial connection used as the report emit sink.
type Link struct {
	port     string
	baudRate int

	mu        sync.Mutex
	conn      serial.Port
	connected bool
}

var _ io.Writer = (*Link)(nil)

// New creates a new Link for the specified port and baud rate.
// A zero baud rate selects DefaultBaudRate.
func New(port string, baudRate int) *Link {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	return &Link{
		port:     port,
		baudRate: baudRate,
	}
}

// Connect opens the serial port.
func (l *Link) Connect() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connected {
		return fmt.Errorf("already connected")
	}

	conn, err := serial.Open(l.port, &serial.Mode{BaudRate: l.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", l.port, err)
	}

	l.conn = conn
	l.connected = true

	return nil
}

// Close closes the serial port.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return nil
	}

	err := l.conn.Close()
	l.conn = nil
	l.connected = false

	if err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", l.port, err)
	}

	return nil
}

// IsConnected returns whether the link is currently open.
func (l *Link) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

// Write sends bytes over the serial link, implementing io.Writer.
func (l *Link) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return 0, fmt.Errorf("not connected")
	}

	return l.conn.Write(p)
}
