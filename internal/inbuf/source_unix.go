//go:build unix

package inbuf

import (
	"io"
	"io/fs"

	"golang.org/x/sys/unix"
)

// fdSource reads a raw file descriptor with read(2).
type fdSource struct {
	fd int
}

func openFile(path string) (Source, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err == nil && st.Mode&unix.S_IFMT == unix.S_IFDIR {
		_ = unix.Close(fd)
		return nil, &fs.PathError{Op: "open", Path: path, Err: unix.EISDIR}
	}
	return &fdSource{fd: fd}, nil
}

func stdinSource() Source {
	return &fdSource{fd: 0}
}

func (s *fdSource) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(s.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		if n == 0 && len(p) > 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

func (s *fdSource) Close() error {
	return unix.Close(s.fd)
}
