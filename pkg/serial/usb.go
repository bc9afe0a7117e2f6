package serial

import (
	"github.com/karalabe/usb"
)

type usbID struct {
	vendorID  uint16
	productID uint16
}

// USB-serial bridges found on ESP32 dev boards. Most of them pulse the
// chip's EN/IO0 lines on port open.
var bridges = map[usbID]string{
	{0x10C4, 0xEA60}: "Silicon Labs CP210x",
	{0x1A86, 0x7523}: "WCH CH340",
	{0x1A86, 0x55D4}: "WCH CH9102",
	{0x0403, 0x6001}: "FTDI FT232R",
	{0x0403, 0x6010}: "FTDI FT2232",
	{0x0403, 0x6015}: "FTDI FT231X",
	{0x303A, 0x1001}: "Espressif USB-Serial/JTAG",
	{0x303A, 0x0002}: "Espressif USB CDC",
}

// Bridge reports the bridge chip name for a VID/PID pair.
func Bridge(vendorID, productID uint16) (string, bool) {
	name, ok := bridges[usbID{vendorID, productID}]
	return name, ok
}

// describeUSB reads the manufacturer and product strings from the USB
// descriptor of the first device matching VID/PID. Failures are not fatal
// for listing, they only leave the strings empty.
func describeUSB(vendorID, productID uint16) (string, string) {
	if vendorID == 0 || !usb.Supported() {
		return "", ""
	}
	infos, err := usb.Enumerate(vendorID, productID)
	if err != nil || len(infos) == 0 {
		return "", ""
	}
	return infos[0].Manufacturer, infos[0].Product
}
