package constants

// mash weight bounds, inclusive
const (
	MinWeight = 1
	MaxWeight = 100
)

// LoopForever is the loop count used when looping is switched on.
// yes, one million times.
const LoopForever = 1000000

// 120 BPM, used until a track sets its own tempo
const DefaultMicrosPerQuarter = 500000

// NOTE: only used when a file has SMPTE time or no resolution at all
const DefaultResolution = 960

const MidiChannels = 16
