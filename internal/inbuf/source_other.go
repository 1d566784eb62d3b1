//go:build !unix

package inbuf

import (
	"io"
	"os"
)

func openFile(path string) (Source, error) {
	return os.Open(path)
}

func stdinSource() Source {
	return io.NopCloser(os.Stdin)
}
