package serial

import (
	"fmt"
	"strconv"

	bugst "go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

type osManager struct {
	describe func(vendorID, productID uint16) (manufacturer, product string)
}

func newManager() Manager { return &osManager{describe: describeUSB} }

func (m *osManager) List() ([]Info, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	out := make([]Info, 0, len(ports))
	for _, p := range ports {
		info := Info{
			Name:         p.Name,
			IsUSB:        p.IsUSB,
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		}
		if p.IsUSB {
			info.VendorID = parseUSBID(p.VID)
			info.ProductID = parseUSBID(p.PID)
			info.Bridge, _ = Bridge(info.VendorID, info.ProductID)
			manufacturer, product := m.describe(info.VendorID, info.ProductID)
			info.Manufacturer = manufacturer
			if product != "" {
				info.Product = product
			}
		}
		out = append(out, info)
	}
	return out, nil
}

func (m *osManager) Open(name string, cfg Config) (Port, error) {
	mode := &bugst.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	p, err := bugst.Open(name, mode)
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return p, nil
}

// parseUSBID converts the enumerator's hex VID/PID strings ("10C4") to numbers.
func parseUSBID(s string) uint16 {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}
