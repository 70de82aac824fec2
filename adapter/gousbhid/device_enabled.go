//go:build cgo

package gousbhid

import (
	"fmt"
	"time"

	"github.com/google/gousb"
	"github.com/halfkay-tools/tycore/platform"
)

// USB standard control-transfer constants used to fetch a HID report
// descriptor directly, since gousb has no "feature report"/"HID usage"
// verbs of its own (SPEC_FULL.md §4.8.G).
const (
	reqGetDescriptor      = 0x06
	descTypeHIDReport     = 0x22
	reqTypeStandardInIntf = 0x81 // Standard | Device-to-host | Interface recipient
	reqTypeClassOutIntf   = 0x21 // Class | Host-to-device | Interface recipient
	reqTypeClassInIntf    = 0xA1 // Class | Device-to-host | Interface recipient
	hidReqSetReport       = 0x09
	hidReqGetReport       = 0x01
	hidReportTypeFeature  = 0x03
)

// describeDevice builds a platform.Info for dev's first interface, reading
// its HID report descriptor to recover the usage page/usage spec.md's
// classifier keys on. Composite devices that expose more than one HID
// interface are described only by their first — a real deployment would
// enumerate each gousb.Device/interface-number pair separately.
func describeDevice(dev *gousb.Device) (platform.Info, error) {
	report, err := fetchReportDescriptor(dev, 0)
	if err != nil {
		return platform.Info{}, err
	}
	page, usage := parseHIDUsage(report)

	return platform.Info{
		VendorID:     uint16(dev.Desc.Vendor),
		ProductID:    uint16(dev.Desc.Product),
		Kind:         platform.KindHID,
		Location:     deviceLocation(dev),
		HIDUsagePage: page,
		HIDUsage:     usage,
		Handle:       dev,
	}, nil
}

func fetchReportDescriptor(dev *gousb.Device, intfNum int) ([]byte, error) {
	buf := make([]byte, 256)
	n, err := dev.Control(reqTypeStandardInIntf, reqGetDescriptor, descTypeHIDReport<<8, uint16(intfNum), buf)
	if err != nil {
		return nil, fmt.Errorf("gousbhid: read HID report descriptor: %w", err)
	}
	return buf[:n], nil
}

// parseHIDUsage scans a HID report descriptor's short items for the first
// top-level Usage Page (Global, tag 0) and Usage (Local, tag 0) values.
func parseHIDUsage(report []byte) (page, usage uint16) {
	i := 0
	for i < len(report) {
		item := report[i]
		size := int(item & 0x03)
		if size == 3 {
			size = 4
		}
		typeBits := (item >> 2) & 0x03
		tagBits := (item >> 4) & 0x0F
		i++
		if i+size > len(report) {
			break
		}
		data := report[i : i+size]
		i += size

		var value uint16
		for j, b := range data {
			value |= uint16(b) << (8 * j)
		}

		switch {
		case typeBits == 1 && tagBits == 0 && page == 0: // Global, Usage Page
			page = value
		case typeBits == 2 && tagBits == 0 && usage == 0: // Local, Usage
			usage = value
		}
	}
	return page, usage
}

// Device implements platform.HIDDevice over one gousb interface's interrupt
// endpoints plus control-transfer feature reports.
type Device struct {
	dev    *gousb.Device
	config *gousb.Config
	intf   *gousb.Interface
	in     *gousb.InEndpoint
	out    *gousb.OutEndpoint
}

// Opener adapts Enumerator's known devices into platform.Opener.
type Opener struct{}

// Open claims info's interface and its interrupt endpoints.
func (Opener) Open(info platform.Info) (platform.Device, error) {
	dev, ok := info.Handle.(*gousb.Device)
	if !ok {
		return nil, fmt.Errorf("gousbhid: Info.Handle is not a *gousb.Device")
	}
	config, err := dev.Config(1)
	if err != nil {
		return nil, fmt.Errorf("gousbhid: set config: %w", err)
	}
	intf, err := config.Interface(0, 0)
	if err != nil {
		config.Close()
		return nil, fmt.Errorf("gousbhid: claim interface: %w", err)
	}
	d := &Device{dev: dev, config: config, intf: intf}
	if out, err := intf.OutEndpoint(1); err == nil {
		d.out = out
	}
	if in, err := intf.InEndpoint(0x81); err == nil {
		d.in = in
	}
	return d, nil
}

func (d *Device) Close() error {
	if d.intf != nil {
		d.intf.Close()
	}
	if d.config != nil {
		d.config.Close()
	}
	return nil
}

func (d *Device) Write(p []byte) (int, error) {
	if d.out == nil {
		return 0, fmt.Errorf("gousbhid: no OUT endpoint")
	}
	return d.out.Write(p)
}

func (d *Device) Read(p []byte, timeout time.Duration) (int, error) {
	if d.in == nil {
		return 0, fmt.Errorf("gousbhid: no IN endpoint")
	}
	return d.in.Read(p)
}

// SendFeatureReport issues a USB HID SET_REPORT(Feature) class control
// transfer (spec.md §6 "hid_send_feature_report").
func (d *Device) SendFeatureReport(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("gousbhid: empty feature report")
	}
	reportID := uint16(p[0])
	val := (hidReportTypeFeature << 8) | reportID
	return d.dev.Control(reqTypeClassOutIntf, hidReqSetReport, val, 0, p)
}

// GetFeatureReport issues a USB HID GET_REPORT(Feature) class control
// transfer (spec.md §6 "hid_send_feature_report" counterpart).
func (d *Device) GetFeatureReport(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("gousbhid: empty feature report buffer")
	}
	reportID := uint16(p[0])
	val := (hidReportTypeFeature << 8) | reportID
	return d.dev.Control(reqTypeClassInIntf, hidReqGetReport, val, 0, p)
}
