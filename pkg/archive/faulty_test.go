package archive

import (
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"gitlab.com/tozd/go/errors"
)

var errInjected = errors.Base("injected failure")

// faultyFS wraps a filesystem and fails selected files at open, read or
// seek time. shortRead files read normally until rewound, then report EOF,
// as if truncated between measuring and reading.
type faultyFS struct {
	billy.Filesystem
	openErr   map[string]bool
	readErr   map[string]bool
	seekErr   map[string]bool
	shortRead map[string]bool
	badSize   map[string]bool

	opened []string
}

func (f *faultyFS) Open(name string) (billy.File, error) {
	f.opened = append(f.opened, name)
	if f.openErr[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	file, err := f.Filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{
		File:      file,
		readErr:   f.readErr[name],
		seekErr:   f.seekErr[name],
		shortRead: f.shortRead[name],
		badSize:   f.badSize[name],
	}, nil
}

type faultyFile struct {
	billy.File
	readErr   bool
	seekErr   bool
	shortRead bool
	badSize   bool
	rewound   bool
}

func (f *faultyFile) Read(p []byte) (int, error) {
	if f.readErr {
		return 0, errInjected
	}
	if f.shortRead && f.rewound {
		return 0, io.EOF
	}
	return f.File.Read(p)
}

func (f *faultyFile) Seek(offset int64, whence int) (int64, error) {
	if f.seekErr {
		return 0, errInjected
	}
	if f.badSize && whence == io.SeekCurrent {
		return -1, nil
	}
	n, err := f.File.Seek(offset, whence)
	if whence == io.SeekStart {
		f.rewound = true
	}
	return n, err
}
