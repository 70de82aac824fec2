//go:build !linux

package linuxserial

import (
	"testing"
	"time"

	"github.com/halfkay-tools/tycore/platform"
	"github.com/stretchr/testify/require"
)

func TestOpenFailsOnUnsupportedPlatform(t *testing.T) {
	dev, err := Open("/dev/ttyACM0", 9600)
	require.Nil(t, dev)
	require.ErrorIs(t, err, ErrClosed)
}

func TestStubDeviceMethodsAllFail(t *testing.T) {
	var d *Device

	_, err := d.Write([]byte("x"))
	require.ErrorIs(t, err, ErrClosed)

	_, err = d.Read(make([]byte, 1), time.Second)
	require.ErrorIs(t, err, ErrClosed)

	require.ErrorIs(t, d.SetConfig(platform.SerialConfig{BaudRate: 115200}), ErrClosed)
	require.NoError(t, d.Close())
}
