package model

import "gitlab.com/gomidi/midi/v2/smf"

// Event is a message placed at an absolute tick. The message bytes are
// never inspected by the mash engine.
type Event struct {
	Tick    uint64
	Message smf.Message
}

// Track holds events ordered by non-decreasing Tick. The end-of-track meta
// event is not stored in Events; EndTick remembers where it was.
type Track struct {
	Events  []Event
	EndTick uint64
}

type Sequence struct {
	TimeFormat smf.TimeFormat

	// ticks per quarter note, 0 for SMPTE time
	Resolution uint16
	Tracks     []Track
}

func (s *Sequence) NumEvents() int {
	var n int
	for _, t := range s.Tracks {
		n += len(t.Events)
	}
	return n
}
