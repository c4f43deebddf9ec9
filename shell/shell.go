package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jsphweid/midimash/config"
	"github.com/jsphweid/midimash/constants"
	"github.com/jsphweid/midimash/file"
	"github.com/jsphweid/midimash/mash"
	"github.com/jsphweid/midimash/midi"
	"github.com/jsphweid/midimash/model"
	"github.com/jsphweid/midimash/util"
)

var (
	errExit       = errors.New("exit")
	errEndOfInput = errors.New("end of input")
)

const banner = "==============================================\n" +
	"midimash\n" +
	"mixes two MIDI files at random\n" +
	"==============================================\n"

const helpText = "HELP WITH COMMANDS:\n" +
	"[Commands are not case-sensitive.]\n" +
	"exit\tExits the program.\n" +
	"help\tShows this list of commands.\n" +
	"load\tLoads two MIDI files.\n" +
	"loop\tTurns looping on or off. (Off by default)\n" +
	"mash\tMashes the two MIDI files together.\n" +
	"play\tPlays the first of the two MIDI files*.\n" +
	"save\tSaves the first MIDI file to the output folder.\n" +
	"show\tShows the MIDI files in the MIDI folder.\n" +
	"stop\tStops playback of the MIDI file.\n\n" +
	"*The first MIDI file is the one that is altered to give " +
	"the \"mashed-up\" result.\n" +
	"_____________________________________________________________"

const hint = `Type "Help" for a list of commands.`

// Sequencer is the playback side of the shell. *player.Sequencer
// implements it.
type Sequencer interface {
	Load(seq *model.Sequence)
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	SetLoopCount(n int)
	LoopCount() int
	Close()
}

type Options struct {
	Config config.Config
	In     io.Reader
	Out    io.Writer
	Logger *slog.Logger
	Source mash.Source

	// nil when no output device could be opened
	Sequencer Sequencer
}

// App is everything a shell session owns. It lives from startup until
// the exit command or the end of input.
type App struct {
	cfg       config.Config
	in        *bufio.Scanner
	out       io.Writer
	log       *slog.Logger
	rng       mash.Source
	sequencer Sequencer

	files      file.Listing
	first      *model.Sequence
	second     *model.Sequence
	firstName  string
	secondName string
}

func New(opts Options) *App {
	in := bufio.NewScanner(opts.In)
	in.Split(bufio.ScanWords)
	return &App{
		cfg:       opts.Config,
		in:        in,
		out:       opts.Out,
		log:       opts.Logger,
		rng:       opts.Source,
		sequencer: opts.Sequencer,
		files:     file.Listing{Dir: opts.Config.MidiDir},
	}
}

func (a *App) commands() map[string]func(ctx context.Context) error {
	return map[string]func(ctx context.Context) error{
		"exit": a.exit,
		"help": a.help,
		"load": a.load,
		"loop": a.loop,
		"mash": a.mash,
		"play": a.play,
		"save": a.save,
		"show": a.show,
		"stop": a.stop,
	}
}

// Run reads commands until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprint(a.out, banner)
	if err := a.load(ctx); err != nil {
		return a.finish(ctx, err)
	}
	fmt.Fprintln(a.out, hint)

	commands := a.commands()
	for {
		token, ok := a.next()
		if !ok {
			return a.finish(ctx, a.exit(ctx))
		}
		input := strings.ToLower(strings.TrimSpace(token))

		command, found := commands[input]
		if !found {
			fmt.Fprintf(a.out, "%v is not a valid command.\n%v\n", input, hint)
		} else if err := command(ctx); err != nil {
			return a.finish(ctx, err)
		}
		fmt.Fprintln(a.out)
	}
}

func (a *App) finish(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, errExit):
		return nil
	case errors.Is(err, errEndOfInput):
		return a.finish(ctx, a.exit(ctx))
	}
	return err
}

func (a *App) next() (string, bool) {
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			a.log.Error("could not read input", "err", err)
		}
		return "", false
	}
	return a.in.Text(), true
}

// promptInt asks until it gets an integer accepted by valid.
func (a *App) promptInt(prompt string, valid func(int) bool) (int, error) {
	for {
		fmt.Fprint(a.out, prompt)
		token, ok := a.next()
		if !ok {
			return 0, errEndOfInput
		}
		fmt.Fprintln(a.out)

		n, err := strconv.Atoi(token)
		if err != nil {
			fmt.Fprintln(a.out, "Input must be an integer!")
			continue
		}
		if valid(n) {
			return n, nil
		}
	}
}

func (a *App) stopPlayback() {
	if a.sequencer != nil && a.sequencer.IsRunning() {
		a.sequencer.Stop()
	}
}

func (a *App) loaded() bool {
	if a.first == nil || a.second == nil {
		fmt.Fprintln(a.out, `No MIDI files are loaded. Type "load" first.`)
		return false
	}
	return true
}

func (a *App) deviceAvailable() bool {
	if a.sequencer == nil {
		fmt.Fprintln(a.out, "Uh-Oh! Midi Unavailable!")
		return false
	}
	return true
}

func (a *App) Close() {
	if a.sequencer != nil {
		a.sequencer.Close()
	}
}

func (a *App) exit(ctx context.Context) error {
	a.Close()
	fmt.Fprint(a.out, banner)
	return errExit
}

func (a *App) help(ctx context.Context) error {
	fmt.Fprintln(a.out, helpText)
	return nil
}

func (a *App) show(ctx context.Context) error {
	files, err := file.List(a.cfg.MidiDir)
	if err != nil {
		a.log.Warn("could not list midi files", "dir", a.cfg.MidiDir, "err", err)
	}
	a.files = files
	a.files.Print(a.out)
	return nil
}

func (a *App) load(ctx context.Context) error {
	a.show(ctx)
	if a.files.Len() == 0 {
		fmt.Fprintf(a.out, "No MIDI files found in %v.\n", a.cfg.MidiDir)
		return nil
	}
	a.stopPlayback()

	inListing := func(n int) bool {
		_, ok := a.files.Get(n)
		return ok
	}
	selector1, err := a.promptInt("Please select the first file: ", inListing)
	if err != nil {
		return err
	}
	selector2, err := a.promptInt("Please select the second file: ", inListing)
	if err != nil {
		return err
	}
	path1, _ := a.files.Get(selector1)
	path2, _ := a.files.Get(selector2)

	first, err := a.readSequence(path1)
	if err != nil {
		return nil
	}
	second, err := a.readSequence(path2)
	if err != nil {
		return nil
	}

	a.first, a.second = first, second
	a.firstName, a.secondName = filepath.Base(path1), filepath.Base(path2)
	if a.sequencer != nil {
		a.sequencer.Load(a.first)
	}
	a.log.Debug("loaded sequences", "first", path1, "second", path2)
	fmt.Fprintf(a.out, "%v and %v have been loaded and selected.\n", a.firstName, a.secondName)
	return nil
}

// readSequence reports failures to the user itself.
func (a *App) readSequence(path string) (*model.Sequence, error) {
	seq, err := midi.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(a.out, "Uh-Oh! File has not been found!")
	case errors.Is(err, midi.ErrMalformed):
		fmt.Fprintln(a.out, "Uh-Oh! Invalid Data!")
	case err != nil:
		fmt.Fprintf(a.out, "Uh-Oh! %v\n", err)
	}
	if err != nil {
		a.log.Warn("could not load midi file", "path", path, "err", err)
	}
	return seq, err
}

func (a *App) loop(ctx context.Context) error {
	if !a.deviceAvailable() {
		return nil
	}
	if a.sequencer.LoopCount() == 0 {
		a.sequencer.SetLoopCount(constants.LoopForever)
		fmt.Fprintln(a.out, "Looping is ON.")
	} else {
		a.sequencer.SetLoopCount(0)
		fmt.Fprintln(a.out, "Looping is OFF.")
	}
	return nil
}

func (a *App) mash(ctx context.Context) error {
	if !a.loaded() {
		return nil
	}
	a.stopPlayback()

	inRange := func(n int) bool {
		return n >= constants.MinWeight && n <= constants.MaxWeight
	}
	weight, err := a.promptInt("Please select the mash weight (between 1 and 100): ", inRange)
	if err != nil {
		return err
	}

	res, err := mash.Swap(a.first, a.second, weight, a.rng)
	if err != nil {
		return err
	}
	a.log.Info("mashed", "first", a.firstName, "second", a.secondName,
		"weight", weight, "eligible", res.Eligible, "swapped", res.Swapped)

	if a.sequencer != nil {
		a.sequencer.Load(a.first)
	}
	fmt.Fprintln(a.out, `Mashing complete! Type "play" to hear the result!`)
	return nil
}

func (a *App) play(ctx context.Context) error {
	if !a.loaded() || !a.deviceAvailable() {
		return nil
	}
	if err := a.sequencer.Start(ctx); err != nil {
		fmt.Fprintf(a.out, "Uh-Oh! %v\n", err)
	}
	return nil
}

func (a *App) stop(ctx context.Context) error {
	if !a.deviceAvailable() {
		return nil
	}
	a.sequencer.Stop()
	return nil
}

func (a *App) save(ctx context.Context) error {
	if !a.loaded() {
		return nil
	}
	if err := util.EnsureOutputDir(a.cfg.OutDir); err != nil {
		fmt.Fprintf(a.out, "Uh-Oh! %v\n", err)
		return nil
	}
	path := filepath.Join(a.cfg.OutDir, "mash-"+uuid.New().String()+".mid")
	if err := midi.WriteFile(path, a.first); err != nil {
		fmt.Fprintf(a.out, "Uh-Oh! %v\n", err)
		return nil
	}
	fmt.Fprintf(a.out, "Saved %v\n", path)
	return nil
}
