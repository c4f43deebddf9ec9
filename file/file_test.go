package file

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateFileNumMap(t *testing.T) {
	m := CreateFileNumMap([]string{"a.mid", "b.mid"})
	assert.Equal(t, "a.mid", m[0])
	assert.Equal(t, "b.mid", m[1])
}

func TestListing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.mid", "two.mid"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{}, 0666); err != nil {
			t.Fatal(err)
		}
	}

	assert := assert.New(t)
	l, err := List(dir)
	assert.NoError(err)
	assert.Equal(2, l.Len())

	path, ok := l.Get(1)
	assert.True(ok)
	assert.Equal(filepath.Join(dir, "two.mid"), path)

	_, ok = l.Get(2)
	assert.False(ok)
	_, ok = l.Get(-1)
	assert.False(ok)

	var buf bytes.Buffer
	l.Print(&buf)
	assert.Contains(buf.String(), "0) "+filepath.Join(dir, "one.mid"))
	assert.Contains(buf.String(), "1) "+filepath.Join(dir, "two.mid"))
	assert.Less(strings.Index(buf.String(), "0) "), strings.Index(buf.String(), "1) "))
}
