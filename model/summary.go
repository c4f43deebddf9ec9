package model

type TrackSummary struct {
	Index     int    `yaml:"index"`
	Name      string `yaml:"name,omitempty"`
	NumEvents int    `yaml:"events"`
	FirstTick uint64 `yaml:"first_tick"`
	LastTick  uint64 `yaml:"last_tick"`
	EndTick   uint64 `yaml:"end_tick"`
}

type SequenceSummary struct {
	Resolution uint16         `yaml:"resolution"`
	NumEvents  int            `yaml:"events"`
	Tracks     []TrackSummary `yaml:"tracks"`
}

func Summarize(s *Sequence) SequenceSummary {
	res := SequenceSummary{Resolution: s.Resolution, NumEvents: s.NumEvents()}
	for i, t := range s.Tracks {
		ts := TrackSummary{
			Index:     i,
			Name:      trackName(t),
			NumEvents: len(t.Events),
			EndTick:   t.EndTick,
		}
		if len(t.Events) > 0 {
			ts.FirstTick = t.Events[0].Tick
			ts.LastTick = t.Events[len(t.Events)-1].Tick
		}
		res.Tracks = append(res.Tracks, ts)
	}
	return res
}

// trackName returns the text of the first sequence/track name meta event.
func trackName(t Track) string {
	for _, evt := range t.Events {
		msg := evt.Message
		if len(msg) < 3 || msg[0] != 0xFF || msg[1] != 0x03 {
			continue
		}
		var length, i int
		for i = 2; i < len(msg); i++ {
			length = length<<7 | int(msg[i]&0x7F)
			if msg[i]&0x80 == 0 {
				break
			}
		}
		start := i + 1
		if start+length > len(msg) {
			return ""
		}
		return string(msg[start : start+length])
	}
	return ""
}
