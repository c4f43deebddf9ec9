//go:build !cgo

package cmd

import (
	"errors"

	"gitlab.com/gomidi/midi/v2/drivers"
)

func openOutput(port int) (drivers.Out, func(), error) {
	return nil, nil, errors.New("built without cgo, no midi driver available")
}
