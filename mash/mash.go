package mash

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jsphweid/midimash/constants"
	"github.com/jsphweid/midimash/model"
	"github.com/jsphweid/midimash/util"
)

var (
	ErrInvalidWeight = errors.New("mash weight must be between 1 and 100")
	ErrNilSequence   = errors.New("cannot mash a nil sequence")
)

type TrackResult struct {
	Eligible int
	Swapped  int
}

type Result struct {
	Tracks   []TrackResult
	Eligible int
	Swapped  int
}

// Swap replaces events of a with the events at the same positions in b.
// Every position that exists in both sequences is replaced with probability
// weight/100, and the replacing event keeps the tick of the one it replaces.
// Tracks and events past the shorter side are left alone. b is not modified.
func Swap(a, b *model.Sequence, weight int, src Source) (Result, error) {
	var res Result
	if a == nil || b == nil {
		return res, ErrNilSequence
	}
	if weight < constants.MinWeight || weight > constants.MaxWeight {
		return res, fmt.Errorf("%w, got %d", ErrInvalidWeight, weight)
	}

	threshold := 1.0 - float64(weight)/100.0
	trackCount := util.Min(len(a.Tracks), len(b.Tracks))
	res.Tracks = make([]TrackResult, trackCount)

	for i := 0; i < trackCount; i++ {
		trackA := &a.Tracks[i]
		trackB := b.Tracks[i]
		eventCount := util.Min(len(trackA.Events), len(trackB.Events))

		replacements := make(map[int]model.Event)
		for j := 0; j < eventCount; j++ {
			coinFlip := src.Float64()
			// weight 100 means every position, even for a draw of exactly 0
			if weight == constants.MaxWeight || coinFlip > threshold {
				replacements[j] = model.Event{
					Tick:    trackA.Events[j].Tick,
					Message: bytes.Clone(trackB.Events[j].Message),
				}
			}
		}
		for j, evt := range replacements {
			trackA.Events[j] = evt
		}

		res.Tracks[i] = TrackResult{Eligible: eventCount, Swapped: len(replacements)}
		res.Eligible += eventCount
		res.Swapped += len(replacements)
	}

	return res, nil
}
