package stream

import (
	"io"
	"os/exec"
)

// OSPipe is the minimal OS-backed Pipe handler: WRITE/APPEND mode spawns
// `sh -c name` and feeds its stdin (`print | "cmd"`); READ mode spawns it
// and reads its stdout (`"cmd" | getline`); RW/RWFLUSH wires both (the
// `|&` coprocess form) through a single *exec.Cmd.
type OSPipe struct{}

type pipeHandle struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

func (OSPipe) Open(d *Data) int {
	cmd := exec.Command("sh", "-c", d.Name)
	h := &pipeHandle{cmd: cmd}
	var err error
	switch d.Mode {
	case WRITE, APPEND:
		h.stdin, err = cmd.StdinPipe()
	case READ:
		h.stdout, err = cmd.StdoutPipe()
	case RW, RWFLUSH:
		if h.stdin, err = cmd.StdinPipe(); err == nil {
			h.stdout, err = cmd.StdoutPipe()
		}
	}
	if err != nil {
		return -1
	}
	if err := cmd.Start(); err != nil {
		return -1
	}
	d.Handle = h
	return 1
}

func (OSPipe) Close(d *Data) int {
	h, ok := d.Handle.(*pipeHandle)
	if !ok {
		return -1
	}
	if h.stdin != nil {
		h.stdin.Close()
	}
	if h.stdout != nil {
		h.stdout.Close()
	}
	if err := h.cmd.Wait(); err != nil {
		return -1
	}
	return 1
}

func (OSPipe) Read(d *Data, buf []byte) (int, error) {
	h := d.Handle.(*pipeHandle)
	if h.stdout == nil {
		return 0, nil
	}
	n, err := h.stdout.Read(buf)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

func (OSPipe) Write(d *Data, buf []byte) (int, error) {
	h := d.Handle.(*pipeHandle)
	if h.stdin == nil {
		return 0, nil
	}
	return h.stdin.Write(buf)
}

func (OSPipe) Flush(d *Data) int {
	// os/exec pipes have no explicit flush; RWFLUSH-mode callers rely on
	// the pipe buffer draining on its own, matching the teacher's own
	// unbuffered os.File-based I/O (no Flush beyond Sync exists there
	// either — see OSFile.Flush).
	return 1
}
