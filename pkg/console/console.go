// Package console implements the line-oriented text protocol spoken by the
// device's serial console: newline-terminated commands out, free-text lines back.
package console

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/seagrayinc/safesignal-provision/pkg/serial"
)

const readChunk = 256

type Transport struct {
	Port serial.Port

	// ReadTimeout bounds each blocking read while collecting a line.
	ReadTimeout time.Duration

	// PollTimeout is used when probing for available input. Zero means
	// "only what is already buffered".
	PollTimeout time.Duration

	Logger zerolog.Logger

	pending []byte
}

func NewTransport(p serial.Port, readTimeout time.Duration, logger zerolog.Logger) *Transport {
	return &Transport{
		Port:        p,
		ReadTimeout: readTimeout,
		Logger:      logger,
	}
}

func (t *Transport) Close() error {
	return t.Port.Close()
}

func EncodeBytesToString(b []byte) string {
	hexDigits := hex.EncodeToString(b)
	var builder strings.Builder
	for i, r := range hexDigits {
		switch {
		case i > 0 && i%2 == 0:
			builder.WriteString("-")
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// WriteLine sends command followed by '\n' and waits until the bytes have
// left the local buffer.
func (t *Transport) WriteLine(command string) error {
	b := []byte(command + "\n")
	n, err := t.Port.Write(b)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if n != len(b) {
		return fmt.Errorf("write failed: %w", io.ErrShortWrite)
	}
	if err := t.Port.Drain(); err != nil {
		return fmt.Errorf("flush failed: %w", err)
	}
	t.Logger.Debug().Int("bytes", n).Msg("wrote line")
	return nil
}

// InWaiting reports whether response bytes are available without waiting
// for more to arrive.
func (t *Transport) InWaiting() (bool, error) {
	if len(t.pending) > 0 {
		return true, nil
	}
	if err := t.Port.SetReadTimeout(t.PollTimeout); err != nil {
		return false, fmt.Errorf("set poll timeout: %w", err)
	}
	n, readErr := t.fill()
	if err := t.Port.SetReadTimeout(t.ReadTimeout); err != nil {
		return false, fmt.Errorf("restore read timeout: %w", err)
	}
	if readErr != nil {
		return false, readErr
	}
	return n > 0, nil
}

// ReadLine returns the next line without its '\n'. If the read timeout
// elapses first, whatever partial line has been received is returned.
func (t *Transport) ReadLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(t.pending, '\n'); i >= 0 {
			line := t.pending[:i]
			t.pending = t.pending[i+1:]
			return line, nil
		}
		n, err := t.fill()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			line := t.pending
			t.pending = nil
			return line, nil
		}
	}
}

func (t *Transport) fill() (int, error) {
	buf := make([]byte, readChunk)
	n, err := t.Port.Read(buf)
	if n > 0 {
		t.pending = append(t.pending, buf[:n]...)
		t.Logger.Debug().Int("bytes", n).Str("hex", EncodeBytesToString(buf[:n])).Msg("read chunk")
	}
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read failed: %w", err)
	}
	return n, nil
}

// Decode turns a raw response line into display text. Bytes that are not
// valid UTF-8 are dropped and trailing whitespace (including '\r') is removed.
func Decode(b []byte) string {
	s := strings.ToValidUTF8(string(b), "")
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
