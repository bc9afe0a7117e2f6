// Package provision drives the SafeSignal button's serial provisioning console.
//
// Commands are plain text lines; arguments are interpolated literally and are
// not quoted, so an argument containing whitespace reaches the firmware as
// several tokens.
package provision

import "strings"

// Command is one console command line.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Raw wraps an operator-typed line so it can be sent unchanged.
func Raw(line string) Command {
	return Command{Name: line}
}

// Sequence returns the provisioning commands for req in the order the
// firmware expects them.
func Sequence(req Request) []Command {
	return []Command{
		SetWiFi(req.WiFiSSID, req.WiFiPassphrase),
		SetDevice(req.DeviceID, req.TenantID, req.BuildingID, req.RoomID),
		Complete(),
		Status(),
	}
}
