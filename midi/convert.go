package midi

import (
	"github.com/jsphweid/midimash/model"
	"github.com/jsphweid/midimash/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

func IsEndOfTrack(msg []byte) bool {
	return len(msg) >= 2 && msg[0] == 0xFF && msg[1] == 0x2F
}

// FromSMF turns the delta timed tracks of mf into absolute ticks. End of
// track events are dropped and their position kept in EndTick.
func FromSMF(mf *smf.SMF) *model.Sequence {
	seq := &model.Sequence{TimeFormat: mf.TimeFormat}
	if mt, ok := mf.TimeFormat.(smf.MetricTicks); ok {
		seq.Resolution = uint16(mt)
	}

	for _, track := range mf.Tracks {
		var tr model.Track
		var absTicks uint64
		for _, evt := range track {
			absTicks += uint64(evt.Delta)
			if IsEndOfTrack(evt.Message) {
				tr.EndTick = absTicks
				continue
			}
			tr.Events = append(tr.Events, model.Event{Tick: absTicks, Message: evt.Message})
		}
		if absTicks > tr.EndTick {
			tr.EndTick = absTicks
		}
		seq.Tracks = append(seq.Tracks, tr)
	}

	return seq
}

// ToSMF builds delta timed tracks from seq, closing each one at the later
// of its EndTick and its last event.
func ToSMF(seq *model.Sequence) *smf.SMF {
	var res *smf.SMF
	if len(seq.Tracks) > 1 {
		res = smf.NewSMF1()
	} else {
		res = smf.New()
	}
	if seq.TimeFormat != nil {
		res.TimeFormat = seq.TimeFormat
	}

	for _, tr := range seq.Tracks {
		var newTrack smf.Track
		var prev uint64
		for _, evt := range tr.Events {
			if IsEndOfTrack(evt.Message) {
				continue
			}
			var delta uint64
			// NOTE: ticks should never go backwards, clamp if they do
			if evt.Tick > prev {
				delta = evt.Tick - prev
				prev = evt.Tick
			}
			newTrack.Add(uint32(delta), evt.Message)
		}
		newTrack.Close(uint32(util.Max(tr.EndTick, prev) - prev))
		res.Tracks = append(res.Tracks, newTrack)
	}

	return res
}
