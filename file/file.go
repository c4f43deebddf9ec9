package file

import (
	"fmt"
	"io"

	"github.com/jsphweid/midimash/model"
	"github.com/jsphweid/midimash/util"
)

func CreateFileNumMap(paths []string) model.FileNumToMidiPath {
	res := make(model.FileNumToMidiPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

// Listing is the enumerated contents of the MIDI directory. Selectors typed
// by the user are indexes into it.
type Listing struct {
	Dir   string
	Paths model.FileNumToMidiPath
}

func List(dir string) (Listing, error) {
	paths, err := util.GatherAllMidiPaths(dir, 0)
	if err != nil {
		return Listing{Dir: dir}, err
	}
	return Listing{Dir: dir, Paths: CreateFileNumMap(paths)}, nil
}

func (l Listing) Len() int {
	return len(l.Paths)
}

func (l Listing) Get(num int) (string, bool) {
	if num < 0 || num >= len(l.Paths) {
		return "", false
	}
	path, ok := l.Paths[uint32(num)]
	return path, ok
}

func (l Listing) Print(w io.Writer) {
	fmt.Fprintf(w, "FILES IN %v:\n", l.Dir)
	for _, num := range util.GetKeys(l.Paths) {
		fmt.Fprintf(w, "%d) %v\n", num, l.Paths[num])
	}
}
