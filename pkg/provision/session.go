package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/seagrayinc/safesignal-provision/pkg/console"
	"github.com/seagrayinc/safesignal-provision/pkg/serial"
)

const (
	// The USB-serial bridge resets the ESP32 when the port opens; the
	// bootloader and console need this long before they accept input.
	DefaultOpenSettle = 2 * time.Second

	// The firmware has no end-of-response marker, so responses are
	// collected after a fixed pause.
	DefaultResponseSettle = 500 * time.Millisecond
)

var ErrSessionClosed = errors.New("session closed")

// Timing holds the fixed delays of a session.
type Timing struct {
	OpenSettle     time.Duration
	ResponseSettle time.Duration
	ReadTimeout    time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		OpenSettle:     DefaultOpenSettle,
		ResponseSettle: DefaultResponseSettle,
		ReadTimeout:    serial.DefaultReadTimeout,
	}
}

// SleepFunc pauses for d or until ctx is done, returning ctx.Err() in the latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Options struct {
	Manager serial.Manager // defaults to the OS serial ports
	Out     io.Writer      // transcript of sent commands and device lines
	Timing  Timing         // zero fields take the defaults
	Sleep   SleepFunc
	Logger  *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Manager == nil {
		o.Manager = serial.NewManager()
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	def := DefaultTiming()
	if o.Timing.OpenSettle == 0 {
		o.Timing.OpenSettle = def.OpenSettle
	}
	if o.Timing.ResponseSettle == 0 {
		o.Timing.ResponseSettle = def.ResponseSettle
	}
	if o.Timing.ReadTimeout == 0 {
		o.Timing.ReadTimeout = def.ReadTimeout
	}
	if o.Sleep == nil {
		o.Sleep = Sleep
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// Session owns one open serial port for the duration of a run.
// It is not safe for concurrent use.
type Session struct {
	port      string
	transport *console.Transport
	out       io.Writer
	timing    Timing
	sleep     SleepFunc
	log       zerolog.Logger
	closed    bool
}

// Open opens the port at 115200 8-N-1 and waits for the device to settle.
// If the wait is cancelled the port is closed before returning.
func Open(ctx context.Context, port string, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	if err := ctx.Err(); err != nil {
		return nil, cancelled("open", err)
	}

	fmt.Fprintf(opts.Out, "Opening serial port %s...\n", port)
	cfg := serial.Config{Baud: serial.DefaultBaud, ReadTimeout: opts.Timing.ReadTimeout}
	p, err := opts.Manager.Open(port, cfg)
	if err != nil {
		return nil, portError("open", port, err)
	}

	logger := opts.Logger.With().Str("port", port).Logger()
	s := &Session{
		port:      port,
		transport: console.NewTransport(p, opts.Timing.ReadTimeout, logger),
		out:       opts.Out,
		timing:    opts.Timing,
		sleep:     opts.Sleep,
		log:       logger,
	}
	s.log.Info().Int("baud", cfg.Baud).Dur("settle", s.timing.OpenSettle).Msg("serial port opened")

	if err := s.sleep(ctx, s.timing.OpenSettle); err != nil {
		_ = s.Close()
		return nil, cancelled("open", err)
	}
	fmt.Fprintln(s.out, "Serial port opened successfully")
	return s, nil
}

func (s *Session) Port() string { return s.port }

// Send writes one command. With wait set it then pauses for the response
// settle time and prints every line the device has buffered by then.
func (s *Session) Send(ctx context.Context, cmd Command, wait bool) error {
	if s.closed {
		return portError("write", s.port, ErrSessionClosed)
	}
	if err := ctx.Err(); err != nil {
		return cancelled(cmd.Name, err)
	}

	line := cmd.String()
	fmt.Fprintf(s.out, "→ Sending: %s\n", line)
	if err := s.transport.WriteLine(line); err != nil {
		return portError("write", s.port, err)
	}
	s.log.Debug().Str("command", cmd.Name).Msg("command sent")

	if !wait {
		return nil
	}
	return s.drain(ctx, cmd)
}

func (s *Session) drain(ctx context.Context, cmd Command) error {
	if err := s.sleep(ctx, s.timing.ResponseSettle); err != nil {
		return cancelled(cmd.Name, err)
	}

	var lines int
	for {
		ok, err := s.transport.InWaiting()
		if err != nil {
			return portError("read", s.port, err)
		}
		if !ok {
			break
		}
		raw, err := s.transport.ReadLine()
		if err != nil {
			return portError("read", s.port, err)
		}
		if line := console.Decode(raw); line != "" {
			fmt.Fprintf(s.out, "← %s\n", line)
			lines++
		}
	}
	s.log.Debug().Str("command", cmd.Name).Int("lines", lines).Msg("response drained")
	return nil
}

// Close releases the port. Only the first call reaches the OS handle.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.transport.Close(); err != nil {
		s.log.Warn().Err(err).Msg("closing serial port failed")
		return portError("close", s.port, err)
	}
	s.log.Info().Msg("serial port closed")
	return nil
}

// closeSession closes s and reports a close failure only when the run
// itself succeeded.
func closeSession(s *Session, err *error) {
	if cerr := s.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// Provision runs the complete provisioning sequence for req: validate,
// open, send every command of Sequence with a response drain, close.
func Provision(ctx context.Context, req Request, opts Options) (err error) {
	if err := req.Validate(); err != nil {
		return err
	}

	s, err := Open(ctx, req.Port, opts)
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	fmt.Fprintln(s.out, "\nSending provisioning commands...")
	for _, cmd := range Sequence(req) {
		if cmd.Name == cmd_PROVISION_STATUS {
			fmt.Fprintln(s.out, "\nVerifying provisioning...")
		}
		if err := s.Send(ctx, cmd, true); err != nil {
			return err
		}
	}
	return nil
}

// Exchange opens port, sends a single command, prints the response and closes.
func Exchange(ctx context.Context, port string, cmd Command, opts Options) (err error) {
	if port == "" {
		return &Error{Kind: KindValidation, Err: ErrNoPort}
	}

	s, err := Open(ctx, port, opts)
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	return s.Send(ctx, cmd, true)
}
