package serial

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrMockClosed = errors.New("mock port closed")

// Responder produces the lines a simulated device prints for one received command line.
type Responder func(line string) []string

// EchoOK answers every command with "OK <command>".
func EchoOK(line string) []string {
	return []string{"OK " + line}
}

// MockPort is an in-memory serial device. Lines written by the host are
// passed to the responder and its output becomes readable immediately.
type MockPort struct {
	mu      sync.Mutex
	respond Responder
	in      []byte
	out     []byte
	closed  bool

	// FailWrite makes the n-th Write call (1-based) return WriteErr.
	FailWrite int
	WriteErr  error

	Lines    []string
	Writes   int
	Drains   int
	Closes   int
	Timeouts []time.Duration
}

func NewMockPort(respond Responder) *MockPort {
	return &MockPort{respond: respond}
}

func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrMockClosed
	}
	m.Writes++
	if m.FailWrite == m.Writes {
		err := m.WriteErr
		if err == nil {
			err = errors.New("mock write failure")
		}
		return 0, err
	}

	m.in = append(m.in, p...)
	for {
		i := bytes.IndexByte(m.in, '\n')
		if i < 0 {
			break
		}
		line := string(m.in[:i])
		m.in = m.in[i+1:]
		m.Lines = append(m.Lines, line)
		if m.respond == nil {
			continue
		}
		for _, r := range m.respond(line) {
			m.out = append(m.out, r...)
			m.out = append(m.out, '\r', '\n')
		}
	}
	return len(p), nil
}

// Read never blocks: an empty device buffer looks like an elapsed read timeout.
func (m *MockPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrMockClosed
	}
	n := copy(p, m.out)
	m.out = m.out[n:]
	return n, nil
}

func (m *MockPort) Drain() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Drains++
	return nil
}

func (m *MockPort) SetReadTimeout(t time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timeouts = append(m.Timeouts, t)
	return nil
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closes++
	m.closed = true
	return nil
}

// Emit queues raw bytes as if the device had printed them unprompted.
func (m *MockPort) Emit(b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.out = append(m.out, b...)
}

// Pending returns the number of device bytes not yet read by the host.
func (m *MockPort) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.out)
}

// MockManager hands out a single MockPort and records every Open call.
// A nil Port makes Open fail the way a missing device does.
type MockManager struct {
	Port    *MockPort
	Infos   []Info
	OpenErr error
	ListErr error

	Opened  []string
	Configs []Config
}

func (m *MockManager) List() ([]Info, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Infos, nil
}

func (m *MockManager) Open(name string, cfg Config) (Port, error) {
	m.Opened = append(m.Opened, name)
	m.Configs = append(m.Configs, cfg)
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Port == nil {
		return nil, fmt.Errorf("open %s: no such file or directory", name)
	}
	return m.Port, nil
}
