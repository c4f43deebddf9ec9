package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/midimash/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrMalformed = errors.New("invalid midi data")

func parse(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return res, nil
}

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	res, err := parse(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file %v: %w", filepath, err)
	}
	return res, nil
}

func Decode(r io.Reader) (*model.Sequence, error) {
	mf, err := parse(r)
	if err != nil {
		return nil, err
	}
	return FromSMF(mf), nil
}

func Load(filepath string) (*model.Sequence, error) {
	mf, err := ReadMidiFile(filepath)
	if err != nil {
		return nil, err
	}
	return FromSMF(mf), nil
}

func Encode(w io.Writer, seq *model.Sequence) error {
	if _, err := ToSMF(seq).WriteTo(w); err != nil {
		return fmt.Errorf("error writing midi data: %w", err)
	}
	return nil
}

func WriteFile(filepath string, seq *model.Sequence) error {
	var buf bytes.Buffer
	if err := Encode(&buf, seq); err != nil {
		return err
	}
	if err := os.WriteFile(filepath, buf.Bytes(), 0666); err != nil {
		return fmt.Errorf("write failed for midi file %v: %w", filepath, err)
	}
	return nil
}
