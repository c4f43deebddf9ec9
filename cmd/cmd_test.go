package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/midimash/mash"
	"github.com/jsphweid/midimash/midi"
	"github.com/jsphweid/midimash/model"
	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"gopkg.in/yaml.v3"
)

func writeFixture(t *testing.T, path string, base uint8, ticks ...uint64) {
	t.Helper()
	var tr model.Track
	tr.Events = append(tr.Events, model.Event{Tick: 0, Message: smf.MetaTrackSequenceName("melody")})
	for j, tick := range ticks {
		tr.Events = append(tr.Events, model.Event{
			Tick:    tick,
			Message: smf.Message(gomidi.NoteOn(0, base+uint8(j), 100)),
		})
	}
	seq := &model.Sequence{TimeFormat: smf.MetricTicks(480), Resolution: 480, Tracks: []model.Track{tr}}
	if err := midi.WriteFile(path, seq); err != nil {
		t.Fatal(err)
	}
}

func TestMashFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.mid")
	second := filepath.Join(dir, "second.mid")
	out := filepath.Join(dir, "out.mid")
	writeFixture(t, first, 60, 0, 10, 20)
	writeFixture(t, second, 80, 5, 15, 25, 35)

	res, err := mashFiles(first, second, out, 100, mash.NewSource(1))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(4, res.Eligible)
	assert.Equal(4, res.Swapped)

	mashed, err := midi.Load(out)
	assert.NoError(err)
	events := mashed.Tracks[0].Events
	assert.Len(events, 4)
	for j, tick := range []uint64{0, 10, 20} {
		assert.Equal(tick, events[j+1].Tick)
		assert.Equal(uint8(80+j), events[j+1].Message[1])
	}
}

func TestMashFilesRejectsWeight(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.mid")
	writeFixture(t, first, 60, 0)

	_, err := mashFiles(first, first, filepath.Join(dir, "out.mid"), 0, mash.NewSource(1))
	assert.ErrorIs(t, err, mash.ErrInvalidWeight)
}

func TestMashFilesMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := mashFiles(filepath.Join(dir, "a.mid"), filepath.Join(dir, "b.mid"), filepath.Join(dir, "out.mid"), 50, mash.NewSource(1))
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mid")
	writeFixture(t, path, 60, 0, 240, 480)

	var buf bytes.Buffer
	assert := assert.New(t)
	assert.NoError(inspect(&buf, path))

	var sum model.SequenceSummary
	assert.NoError(yaml.Unmarshal(buf.Bytes(), &sum))
	assert.Equal(uint16(480), sum.Resolution)
	assert.Len(sum.Tracks, 1)
	assert.Equal("melody", sum.Tracks[0].Name)
	assert.Equal(4, sum.Tracks[0].NumEvents)
	assert.Equal(uint64(480), sum.Tracks[0].LastTick)
}

func TestPrintResultReportsEveryTrack(t *testing.T) {
	res := mash.Result{
		Tracks:   []mash.TrackResult{{Eligible: 4, Swapped: 1}, {Eligible: 0, Swapped: 0}},
		Eligible: 4,
		Swapped:  1,
	}

	var buf bytes.Buffer
	printResult(&buf, res)

	assert.Equal(t, "track 0: 1 of 4 events swapped\n"+
		"track 1: 0 of 0 events swapped\n"+
		"total: 1 of 4 events swapped\n", buf.String())
}

func TestRootReadsCommandsFromInput(t *testing.T) {
	t.Setenv("MIDI_DIR", filepath.Join(t.TempDir(), "empty"))
	t.Setenv("LOG_LEVEL", "error")

	var buf bytes.Buffer
	rootCmd.SetIn(strings.NewReader("help exit"))
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{})
	defer func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	assert := assert.New(t)
	assert.NoError(rootCmd.Execute())
	assert.Contains(buf.String(), "HELP WITH COMMANDS:")
}
