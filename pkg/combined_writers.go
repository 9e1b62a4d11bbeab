package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans a single write out to all of its writers.
// A failing writer does not stop the others; errors are combined.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer{}, writers...),
	}
}

func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		n += written
	}
	return n, err
}

// Close closes every writer that is also an io.Closer.
func (cw *CombinedWriter) Close() error {
	var err error
	for _, w := range cw.Writers {
		if c, ok := w.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
