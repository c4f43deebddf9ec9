//go:build cgo

package cmd

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

// openOutput opens output port number port. The returned func closes the
// port and the driver.
func openOutput(port int) (drivers.Out, func(), error) {
	out, err := midi.OutPort(port)
	if err != nil {
		midi.CloseDriver()
		return nil, nil, fmt.Errorf("could not find midi output %d: %w", port, err)
	}
	if err := out.Open(); err != nil {
		midi.CloseDriver()
		return nil, nil, fmt.Errorf("could not open midi output %v: %w", out, err)
	}
	return out, func() {
		out.Close()
		midi.CloseDriver()
	}, nil
}
