package player

import (
	"sort"
	"time"

	"github.com/jsphweid/midimash/constants"
	"github.com/jsphweid/midimash/model"
)

type tempoChange struct {
	tick   uint64
	micros uint64 // per quarter note
	at     time.Duration
}

// TempoMap converts absolute ticks to wall clock offsets using the set tempo
// meta events found in any track.
type TempoMap struct {
	resolution uint64
	changes    []tempoChange
}

func metaTempo(msg []byte) (uint64, bool) {
	if len(msg) != 6 || msg[0] != 0xFF || msg[1] != 0x51 || msg[2] != 0x03 {
		return 0, false
	}
	micros := uint64(msg[3])<<16 | uint64(msg[4])<<8 | uint64(msg[5])
	return micros, micros > 0
}

func NewTempoMap(seq *model.Sequence) TempoMap {
	m := TempoMap{resolution: uint64(seq.Resolution)}
	if m.resolution == 0 {
		m.resolution = constants.DefaultResolution
	}

	var found []tempoChange
	for _, tr := range seq.Tracks {
		for _, evt := range tr.Events {
			if micros, ok := metaTempo(evt.Message); ok {
				found = append(found, tempoChange{tick: evt.Tick, micros: micros})
			}
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].tick < found[j].tick
	})

	m.changes = []tempoChange{{micros: constants.DefaultMicrosPerQuarter}}
	for _, c := range found {
		prev := m.changes[len(m.changes)-1]
		if c.tick == prev.tick {
			m.changes[len(m.changes)-1].micros = c.micros
			continue
		}
		c.at = prev.at + m.duration(c.tick-prev.tick, prev.micros)
		m.changes = append(m.changes, c)
	}
	return m
}

func (m TempoMap) duration(ticks, micros uint64) time.Duration {
	return time.Duration(ticks*micros/m.resolution) * time.Microsecond
}

func (m TempoMap) TimeAt(tick uint64) time.Duration {
	i := sort.Search(len(m.changes), func(i int) bool {
		return m.changes[i].tick > tick
	}) - 1
	c := m.changes[i]
	return c.at + m.duration(tick-c.tick, c.micros)
}
