package player

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jsphweid/midimash/constants"
	"github.com/jsphweid/midimash/model"
	"gitlab.com/gomidi/midi/v2"
)

var ErrNoSequence = errors.New("no sequence loaded")

// Out is the part of a gomidi drivers.Out the sequencer needs.
type Out interface {
	Send([]byte) error
}

type cue struct {
	at  time.Duration
	msg []byte
}

// Sequencer plays a sequence on an output port from position 0, repeating
// it LoopCount extra times.
type Sequencer struct {
	out Out
	log *slog.Logger

	mu        sync.Mutex
	loaded    bool
	timeline  []cue
	loopCount int
	cancel    context.CancelFunc
	done      chan struct{}
}

func New(out Out, log *slog.Logger) *Sequencer {
	return &Sequencer{out: out, log: log}
}

func buildTimeline(seq *model.Sequence) []cue {
	tempo := NewTempoMap(seq)

	type timed struct {
		tick uint64
		msg  []byte
	}
	var events []timed
	for _, tr := range seq.Tracks {
		for _, evt := range tr.Events {
			if len(evt.Message) == 0 || evt.Message[0] == 0xFF {
				continue
			}
			events = append(events, timed{tick: evt.Tick, msg: evt.Message})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})

	res := make([]cue, 0, len(events))
	for _, evt := range events {
		res = append(res, cue{at: tempo.TimeAt(evt.tick), msg: evt.msg})
	}
	return res
}

// Load replaces the current sequence, stopping playback first. The
// timeline is a snapshot; mutate the sequence and Load it again to hear
// the change.
func (s *Sequencer) Load(seq *model.Sequence) {
	s.Stop()
	timeline := buildTimeline(seq)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeline = timeline
	s.loaded = true
}

func (s *Sequencer) SetLoopCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loopCount = n
}

func (s *Sequencer) LoopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loopCount
}

// Start plays from the beginning, restarting if already running.
func (s *Sequencer) Start(ctx context.Context) error {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNoSequence
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.run(ctx, s.timeline, done)
	return nil
}

func (s *Sequencer) run(ctx context.Context, timeline []cue, done chan struct{}) {
	defer close(done)
	for loop := 0; loop <= s.LoopCount(); loop++ {
		start := time.Now()
		for _, c := range timeline {
			if wait := c.at - time.Since(start); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
			} else if ctx.Err() != nil {
				return
			}
			if err := s.out.Send(c.msg); err != nil {
				s.log.Warn("could not send midi message", "msg", c.msg, "err", err)
			}
		}
	}
	s.log.Debug("playback finished")
}

func (s *Sequencer) IsRunning() bool {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Wait blocks until playback ends on its own or is stopped.
func (s *Sequencer) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Stop halts playback and silences every channel. Stopping a sequencer
// that is not running does nothing.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	<-done
	for ch := uint8(0); ch < constants.MidiChannels; ch++ {
		if err := s.out.Send(midi.ControlChange(ch, 123, 0)); err != nil {
			s.log.Warn("could not send all notes off", "channel", ch, "err", err)
			return
		}
	}
}

func (s *Sequencer) Close() {
	s.Stop()
}
