package format

import (
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// textFile is an open text source that strips a leading byte order mark,
// decodes UTF-16 when the mark says so, and replaces invalid UTF-8 with
// U+FFFD.
type textFile struct {
	io.Reader
	f *os.File
}

func (t *textFile) Close() error { return t.f.Close() }

func openText(path string, opts Options) (*textFile, error) {
	if err := checkSize(path, opts); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return &textFile{Reader: transform.NewReader(f, dec), f: f}, nil
}
