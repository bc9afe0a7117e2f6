// Package interactive provides the interactive console for provisionctl.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/seagrayinc/safesignal-provision/pkg/provision"
)

// LineReader is the part of *readline.Instance the console needs.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Sender delivers one command to the device. *provision.Session implements it.
type Sender interface {
	Send(ctx context.Context, cmd provision.Command, wait bool) error
}

// NewReadline creates the line editor used by the console command.
func NewReadline() (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "esp32> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return rl, nil
}

// Console forwards typed lines to the device console.
type Console struct {
	dev Sender
	rl  LineReader
	out io.Writer
}

func New(dev Sender, rl LineReader, out io.Writer) *Console {
	return &Console{dev: dev, rl: rl, out: out}
}

// Run reads lines until exit, EOF, cancellation or a serial error.
// The line reader is closed on return.
func (c *Console) Run(ctx context.Context) error {
	defer c.rl.Close()

	c.printHelp()

	for {
		if err := ctx.Err(); err != nil {
			return &provision.Error{Kind: provision.KindCancelled, Op: "console", Err: err}
		}

		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out, "Exiting...")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		input := strings.TrimSpace(line)
		switch input {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(c.out, "Exiting...")
			return nil
		case "?":
			c.printHelp()
			continue
		}

		if err := c.dev.Send(ctx, provision.Raw(input), true); err != nil {
			return err
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintf(c.out, `
Lines are sent to the device as typed. Useful commands:
  %-28s show provisioning status
  %-28s read one value (wifi_ssid, device_id, ...)
  %-28s show certificate status
  %-28s erase provisioning data
  help                         device console help
  ?                            this text
  exit, quit                   leave the console
`,
		provision.Status().String(),
		provision.Get("<key>").String(),
		provision.CertStatus().String(),
		provision.Reset().String(),
	)
}
