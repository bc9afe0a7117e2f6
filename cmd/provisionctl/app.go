package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/seagrayinc/safesignal-provision/internal/config"
	"github.com/seagrayinc/safesignal-provision/pkg/provision"
	"github.com/seagrayinc/safesignal-provision/pkg/serial"
)

var errNoTerminal = errors.New("--wifi-pass - needs an interactive terminal")

type app struct {
	stdout io.Writer
	stderr io.Writer

	manager      serial.Manager
	sleep        provision.SleepFunc
	readPassword func(prompt string) (string, error)

	configFile string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	a := &app{
		stdout:  stdout,
		stderr:  stderr,
		manager: serial.NewManager(),
		logger:  zerolog.Nop(),
	}
	a.readPassword = a.readTerminalPassword
	return a
}

// run executes one CLI invocation and returns the process exit status.
// Nothing escapes it: errors and panics alike end up as status 1.
func run(ctx context.Context, args []string, a *app) (code int) {
	defer func() {
		if r := recover(); r != nil {
			a.report(&provision.Error{Kind: provision.KindUnknown, Err: fmt.Errorf("panic: %v", r)})
			code = 1
		}
	}()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		a.report(err)
	}
	return provision.ExitCode(err)
}

// setup loads the config file and configures logging. It runs before every command.
func (a *app) setup() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return &provision.Error{Kind: provision.KindUnknown, Op: "config", Err: err}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = setupLogging(cfg.Log.Level, a.stderr).With().Str("run_id", uuid.NewString()).Logger()
	return nil
}

func setupLogging(level string, w io.Writer) zerolog.Logger {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("unknown log level, using warn")
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return log.Logger
}

func (a *app) options() provision.Options {
	return provision.Options{
		Manager: a.manager,
		Out:     a.stdout,
		Timing:  a.cfg.SessionTiming(),
		Sleep:   a.sleep,
		Logger:  &a.logger,
	}
}

func (a *app) readTerminalPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}
	fmt.Fprint(a.stdout, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(a.stdout)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
