package interactive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seagrayinc/safesignal-provision/pkg/provision"
	"github.com/seagrayinc/safesignal-provision/pkg/serial"
)

// scriptedReader replays lines, then returns io.EOF.
type scriptedReader struct {
	lines  []string
	errs   map[int]error
	calls  int
	closed int
	onRead func(call int)
}

func (r *scriptedReader) Readline() (string, error) {
	call := r.calls
	r.calls++
	if r.onRead != nil {
		r.onRead(call)
	}
	if err, ok := r.errs[call]; ok {
		return "", err
	}
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) Close() error {
	r.closed++
	return nil
}

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func openSession(t *testing.T, port *serial.MockPort, out io.Writer) *provision.Session {
	t.Helper()
	s, err := provision.Open(context.Background(), "/dev/ttyUSB0", provision.Options{
		Manager: &serial.MockManager{Port: port},
		Out:     out,
		Sleep:   noSleep,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestConsoleForwardsLines(t *testing.T) {
	port := serial.NewMockPort(serial.EchoOK)
	var out bytes.Buffer
	s := openSession(t, port, &out)
	rl := &scriptedReader{lines: []string{"provision_status", "  ", "provision_get wifi_ssid", "exit", "never sent"}}

	err := New(s, rl, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"provision_status", "provision_get wifi_ssid"}, port.Lines)
	assert.Contains(t, out.String(), "← OK provision_status\n")
	assert.Contains(t, out.String(), "← OK provision_get wifi_ssid\n")
	assert.Contains(t, out.String(), "Exiting...")
	assert.Equal(t, 1, rl.closed)
}

func TestConsoleEOFEndsCleanly(t *testing.T) {
	port := serial.NewMockPort(serial.EchoOK)
	var out bytes.Buffer
	s := openSession(t, port, &out)
	rl := &scriptedReader{lines: []string{"help"}}

	require.NoError(t, New(s, rl, &out).Run(context.Background()))
	assert.Equal(t, []string{"help"}, port.Lines)
	assert.Equal(t, 1, rl.closed)
}

func TestConsoleInterruptReprompts(t *testing.T) {
	port := serial.NewMockPort(serial.EchoOK)
	var out bytes.Buffer
	s := openSession(t, port, &out)
	rl := &scriptedReader{
		lines: []string{"provision_status", "quit"},
		errs:  map[int]error{0: readline.ErrInterrupt},
	}

	require.NoError(t, New(s, rl, &out).Run(context.Background()))
	assert.Equal(t, []string{"provision_status"}, port.Lines)
	assert.Equal(t, 3, rl.calls)
}

func TestConsoleLocalHelpIsNotSent(t *testing.T) {
	port := serial.NewMockPort(serial.EchoOK)
	var out bytes.Buffer
	s := openSession(t, port, &out)
	out.Reset()
	rl := &scriptedReader{lines: []string{"?"}}

	require.NoError(t, New(s, rl, &out).Run(context.Background()))
	assert.Empty(t, port.Lines)
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("provision_cert_status")))
}

func TestConsoleCancelled(t *testing.T) {
	port := serial.NewMockPort(serial.EchoOK)
	var out bytes.Buffer
	s := openSession(t, port, &out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := &scriptedReader{
		lines: []string{"provision_status", "provision_status"},
		onRead: func(call int) {
			if call == 0 {
				cancel()
			}
		},
	}

	err := New(s, rl, &out).Run(ctx)
	require.Error(t, err)
	assert.Equal(t, provision.KindCancelled, provision.KindOf(err))
	assert.Empty(t, port.Lines)
	assert.Equal(t, 1, rl.closed)
}

func TestConsoleStopsOnWriteError(t *testing.T) {
	port := serial.NewMockPort(serial.EchoOK)
	port.FailWrite = 2
	var out bytes.Buffer
	s := openSession(t, port, &out)
	rl := &scriptedReader{lines: []string{"provision_status", "provision_status", "provision_status"}}

	err := New(s, rl, &out).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, provision.KindPort, provision.KindOf(err))
	assert.Len(t, port.Lines, 1)
}

func TestConsoleReadError(t *testing.T) {
	port := serial.NewMockPort(serial.EchoOK)
	var out bytes.Buffer
	s := openSession(t, port, &out)
	boom := errors.New("tty gone")
	rl := &scriptedReader{errs: map[int]error{0: boom}}

	err := New(s, rl, &out).Run(context.Background())
	require.ErrorIs(t, err, boom)
}
