// Package gousbhid implements platform.Enumerator and platform.HIDDevice
// over github.com/google/gousb, the way karalabe/hid's hid_enabled.go gates
// its cgo-backed implementation behind a build tag with a no-cgo fallback
// (hid_disabled.go) reporting Supported() == false.
package gousbhid

import "errors"

// ErrUnsupportedPlatform is returned by NewEnumerator, Enumerator.List,
// Enumerator.Refresh and Opener.Open when built without cgo, mirroring
// karalabe/hid's ErrUnsupportedPlatform.
var ErrUnsupportedPlatform = errors.New("gousbhid: unsupported platform (built without cgo)")
