package stream

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	var f OSFile

	wd := &Data{Mode: WRITE, Name: path}
	if rc := f.Open(wd); rc < 1 {
		t.Fatalf("open for write failed: %d", rc)
	}
	if _, err := f.Write(wd, []byte("hello\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rc := f.Close(wd); rc != 1 {
		t.Fatalf("close: %d", rc)
	}

	rd := &Data{Mode: READ, Name: path}
	if rc := f.Open(rd); rc < 1 {
		t.Fatalf("open for read failed: %d", rc)
	}
	buf := make([]byte, 64)
	n, err := f.Read(rd, buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != "hello\n" {
		t.Fatalf("want %q, got %q", "hello\n", string(buf[:n]))
	}
	f.Close(rd)
}

func TestOSConsoleIteratesFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	os.WriteFile(a, []byte("A"), 0644)
	os.WriteFile(b, []byte("B"), 0644)

	c := NewOSConsole([]string{a, b})
	d := &Data{Mode: READ}
	if rc := c.Open(d); rc < 1 {
		t.Fatalf("open: %d", rc)
	}
	if c.CurrentName() != a {
		t.Fatalf("want current %q, got %q", a, c.CurrentName())
	}
	buf := make([]byte, 8)
	n, _ := c.Read(d, buf)
	if string(buf[:n]) != "A" {
		t.Fatalf("want A, got %q", string(buf[:n]))
	}
	if rc := c.Next(d); rc < 1 {
		t.Fatalf("next: %d", rc)
	}
	if c.CurrentName() != b {
		t.Fatalf("want current %q, got %q", b, c.CurrentName())
	}
	if rc := c.Next(d); rc != 0 {
		t.Fatalf("want 0 (exhausted) after last file, got %d", rc)
	}
}

func TestDecodeUTF16BOMPassthroughForUTF8(t *testing.T) {
	out, err := decodeUTF16IfBOM(newStrReader("hello"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != "hello" {
		t.Fatalf("want passthrough, got %q", out)
	}
}

type strReader struct {
	s    string
	read bool
}

func newStrReader(s string) *strReader { return &strReader{s: s} }

func (r *strReader) Read(p []byte) (int, error) {
	if r.read {
		return 0, io.EOF
	}
	r.read = true
	n := copy(p, r.s)
	return n, nil
}
