package stream

import (
	"io"
	"os"
)

// OSConsole is the minimal OS-backed Console handler: it walks a list of
// input file names (the host fills Files from ARGV before the run starts —
// this package has no notion of Hawk's Value/globals, see stream.go's
// comment on Data.Interp) falling back to stdin when Files is empty, and
// writes to stdout. Next() advances to the next file in that list,
// matching spec.md §6's "next(io) for advancing to the next input file in
// the console input sequence".
type OSConsole struct {
	Files []string
	idx   int
	cur   *os.File
	out   *os.File
}

// NewOSConsole builds a console reading the given input files in order (or
// stdin if files is empty) and writing to stdout.
func NewOSConsole(files []string) *OSConsole {
	return &OSConsole{Files: files, out: os.Stdout}
}

// SetOut redirects console output, letting a host embedding Hawk capture
// stdout instead of writing to the process's real os.Stdout.
func (c *OSConsole) SetOut(f *os.File) { c.out = f }

// CurrentName reports the file currently being read, or "" for stdin — the
// runtime uses this to maintain the FILENAME global.
func (c *OSConsole) CurrentName() string {
	if len(c.Files) == 0 || c.idx >= len(c.Files) {
		return ""
	}
	return c.Files[c.idx]
}

func (c *OSConsole) Open(d *Data) int {
	if d.Mode != READ {
		c.out = os.Stdout
		return 1
	}
	return c.openCurrent()
}

func (c *OSConsole) openCurrent() int {
	if len(c.Files) == 0 {
		c.cur = os.Stdin
		return 1
	}
	if c.idx >= len(c.Files) {
		return 0
	}
	name := c.Files[c.idx]
	if name == "-" {
		c.cur = os.Stdin
		return 1
	}
	f, err := os.Open(name)
	if err != nil {
		return -1
	}
	c.cur = f
	return 1
}

// Next closes the current input file (if any) and advances to the next one
// in Files, returning 0 once the list is exhausted (spec.md §6's "end of
// stream" sentinel) or -1 on an open error.
func (c *OSConsole) Next(d *Data) int {
	if c.cur != nil && c.cur != os.Stdin {
		c.cur.Close()
	}
	c.idx++
	if len(c.Files) == 0 {
		return 0
	}
	return c.openCurrent()
}

func (c *OSConsole) Close(d *Data) int {
	if c.cur != nil && c.cur != os.Stdin {
		c.cur.Close()
	}
	return 1
}

func (c *OSConsole) Read(d *Data, buf []byte) (int, error) {
	if c.cur == nil {
		if ok := c.openCurrent(); ok <= 0 {
			return 0, nil
		}
	}
	n, err := c.cur.Read(buf)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

func (c *OSConsole) Write(d *Data, buf []byte) (int, error) {
	return c.out.Write(buf)
}

func (c *OSConsole) Flush(d *Data) int {
	if err := c.out.Sync(); err != nil {
		return -1
	}
	return 1
}
