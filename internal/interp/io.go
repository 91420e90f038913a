package interp

import (
	"fmt"
	"strings"

	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/builtins"
	"github.com/hawklang/hawk/internal/errors"
	"github.com/hawklang/hawk/internal/stream"
	"github.com/hawklang/hawk/internal/value"
)

// consoleOutData is the (unused-by-OSConsole) Data handed to every
// console Write call, kept as a single shared value rather than allocated
// per print statement.
var consoleOutData = &stream.Data{Mode: stream.WRITE, Kind: stream.KindConsole}

// ioHandle is a named open stream (a print destination and/or a getline
// source), reused across calls to the same name until close() (spec.md §6:
// "First use opens the stream via the abstract Stream provider; subsequent
// uses reuse it; close(name) closes and removes it").
type ioHandle struct {
	handler stream.Handler
	data    *stream.Data
	readBuf []byte // unconsumed bytes read but not yet split into a record
	eof     bool
}

// defaultProvider maps stream.Kind to the OS-backed handlers built in
// internal/stream — a host embedding Hawk supplies its own Provider (e.g.
// one that sandboxes file/pipe access) via Config.Provider instead.
type defaultProvider struct{}

func (defaultProvider) Handler(kind stream.Kind, name string) stream.Handler {
	switch kind {
	case stream.KindFile:
		return stream.OSFile{}
	case stream.KindPipe:
		return stream.OSPipe{}
	default:
		return stream.OSFile{}
	}
}

func (ip *Interp) handleFor(kind stream.Kind, name string, mode stream.Mode) (*ioHandle, error) {
	if h, ok := ip.handles[name]; ok {
		return h, nil
	}
	handler := ip.provider.Handler(kind, name)
	d := &stream.Data{Mode: mode, Name: name, Kind: kind, Interp: ip}
	if handler.Open(d) < 0 {
		return nil, errors.New(errors.NOENT, errors.Position{}, "cannot open %q", name)
	}
	h := &ioHandle{handler: handler, data: d}
	ip.handles[name] = h
	ip.order = append(ip.order, name)
	return h, nil
}

func (ip *Interp) closeHandle(name string) int {
	h, ok := ip.handles[name]
	if !ok {
		return -1
	}
	delete(ip.handles, name)
	return h.handler.Close(h.data)
}

// Close tears down every I/O name still open, in reverse open order
// (spec.md §5: "interpreter teardown closes all remaining entries in
// reverse open order"). A program that explicitly close()s a stream still
// only has it closed once: closeHandle already removed it from ip.handles,
// so a stale name left behind in ip.order is simply skipped here.
func (ip *Interp) Close() {
	for i := len(ip.order) - 1; i >= 0; i-- {
		name := ip.order[i]
		if _, ok := ip.handles[name]; !ok {
			continue
		}
		ip.closeHandle(name)
	}
	ip.order = nil
	if ip.consoleH != nil {
		ip.console.Close(ip.consoleH.data)
		ip.consoleH = nil
	}
}

func (ip *Interp) flushHandle(name string) int {
	h, ok := ip.handles[name]
	if !ok {
		return -1
	}
	return h.handler.Flush(h.data)
}

func (ip *Interp) flushAll() {
	for _, h := range ip.handles {
		h.handler.Flush(h.data)
	}
}

// readRecord pulls the next RS-delimited record from h, returning ("", nil,
// false) at end of stream.
func (ip *Interp) readRecord(h *ioHandle) (string, error, bool) {
	rs := ip.getGlobal(ip.slots.rs).ToStr(ip.convfmt())
	sep := []byte("\n")
	if rs != "" {
		sep = []byte(rs)
	}
	for {
		if i := indexBytes(h.readBuf, sep); i >= 0 {
			rec := string(h.readBuf[:i])
			h.readBuf = h.readBuf[i+len(sep):]
			return rec, nil, true
		}
		if h.eof {
			if len(h.readBuf) > 0 {
				rec := string(h.readBuf)
				h.readBuf = nil
				return rec, nil, true
			}
			return "", nil, false
		}
		buf := make([]byte, 4096)
		n, err := h.handler.Read(h.data, buf)
		if err != nil {
			return "", err, false
		}
		if n == 0 {
			h.eof = true
			continue
		}
		h.readBuf = append(h.readBuf, buf[:n]...)
	}
}

func indexBytes(b, sep []byte) int {
	return strings.Index(string(b), string(sep))
}

func (ip *Interp) evalGetline(n *ast.GetlineExpr) (value.Value, error) {
	var rec string
	var ok bool
	var err error

	switch n.Kind {
	case ast.GetlinePlain:
		rec, ok, err = ip.nextConsoleRecord()
	case ast.GetlineFromFile:
		sv, e := ip.eval(n.Source)
		if e != nil {
			return value.NewNil(), e
		}
		name := sv.ToStr(ip.convfmt())
		h, e := ip.handleFor(stream.KindFile, name, stream.READ)
		if e != nil {
			return value.NewInt(-1), nil
		}
		rec, err, ok = ip.readRecord(h)
	case ast.GetlineFromCmd, ast.GetlineFromCoCmd:
		sv, e := ip.eval(n.Source)
		if e != nil {
			return value.NewNil(), e
		}
		name := sv.ToStr(ip.convfmt())
		mode := stream.READ
		if n.Kind == ast.GetlineFromCoCmd {
			mode = stream.RW
		}
		h, e := ip.handleFor(stream.KindPipe, name, mode)
		if e != nil {
			return value.NewInt(-1), nil
		}
		rec, err, ok = ip.readRecord(h)
	}
	if err != nil {
		return value.NewInt(-1), nil
	}
	if !ok {
		return value.NewInt(0), nil
	}

	// NR/FNR updates follow POSIX's getline table: plain getline bumps both;
	// cmd|getline bumps NR only; getline <file bumps neither (spec.md §4.3).
	switch n.Kind {
	case ast.GetlinePlain:
		ip.setGlobal(ip.slots.nr, value.NewInt(ip.getGlobal(ip.slots.nr).ToInt()+1))
		ip.setGlobal(ip.slots.fnr, value.NewInt(ip.getGlobal(ip.slots.fnr).ToInt()+1))
	case ast.GetlineFromCmd, ast.GetlineFromCoCmd:
		ip.setGlobal(ip.slots.nr, value.NewInt(ip.getGlobal(ip.slots.nr).ToInt()+1))
	}

	if n.Target == nil {
		ip.setRecord(rec)
		ip.record.fieldsValid = false
	} else {
		t, e := ip.lvalueOf(n.Target)
		if e != nil {
			return value.NewNil(), e
		}
		t.Set(value.NewNumStr(rec))
	}
	return value.NewInt(1), nil
}

// nextConsoleRecord reads the next record from the main input sequence,
// advancing through ARGV-derived files via the console's Next() when the
// current one is exhausted (spec.md §6).
func (ip *Interp) nextConsoleRecord() (string, bool, error) {
	for {
		rec, err, ok := ip.readRecord(ip.consoleHandle())
		if err != nil {
			return "", false, err
		}
		if ok {
			return rec, true, nil
		}
		if ip.console.Next(&stream.Data{Mode: stream.READ}) == 0 {
			return "", false, nil
		}
		ip.consoleH.readBuf = nil
		ip.consoleH.eof = false
		ip.setGlobal(ip.slots.filename, value.NewStr(ip.console.CurrentName()))
		ip.setGlobal(ip.slots.fnr, value.NewInt(0))
	}
}

func (ip *Interp) consoleHandle() *ioHandle {
	if ip.consoleH == nil {
		d := &stream.Data{Mode: stream.READ, Kind: stream.KindConsole, Interp: ip}
		ip.console.Open(d)
		ip.consoleH = &ioHandle{handler: ip.console, data: d}
	}
	return ip.consoleH
}

func (ip *Interp) execPrint(n *ast.PrintStmt) error {
	ofs := ip.getGlobal(ip.slots.ofs).ToStr(ip.convfmt())
	ors := ip.getGlobal(ip.slots.ors).ToStr(ip.convfmt())
	var out string
	if n.Printf {
		if len(n.Args) == 0 {
			return errors.New(errors.PRINTFARG, n.Pos(), "printf requires a format argument")
		}
		fv, err := ip.eval(n.Args[0])
		if err != nil {
			return err
		}
		args := make([]value.Value, len(n.Args)-1)
		for i, a := range n.Args[1:] {
			v, err := ip.eval(a)
			if err != nil {
				return err
			}
			args[i] = v
		}
		out = builtins.Sprintf(fv.ToStr(ip.convfmt()), args, ip.convfmt())
	} else {
		parts := make([]string, len(n.Args))
		if len(n.Args) == 0 {
			parts = []string{ip.getField(0)}
		} else {
			for i, a := range n.Args {
				v, err := ip.eval(a)
				if err != nil {
					return err
				}
				parts[i] = ip.outputStr(v)
			}
		}
		out = strings.Join(parts, ofs) + ors
	}
	return ip.writeOutput(n, out)
}

// outputStr formats a value for print, using OFMT (not CONVFMT) for
// non-integral numbers per spec.md §4.5.
func (ip *Interp) outputStr(v value.Value) string {
	switch v.Kind() {
	case value.Flt:
		f := v.ToFlt()
		if f == float64(int64(f)) {
			return fmt.Sprintf("%d", int64(f))
		}
		return v.ToStr(ip.ofmtStr())
	default:
		return v.ToStr(ip.convfmt())
	}
}

func (ip *Interp) writeOutput(n *ast.PrintStmt, out string) error {
	switch n.Redirect {
	case ast.RedirNone:
		_, err := ip.console.Write(consoleOutData, []byte(out))
		return err
	case ast.RedirFile, ast.RedirAppend:
		name, err := ip.evalDestName(n.Dest)
		if err != nil {
			return err
		}
		mode := stream.WRITE
		if n.Redirect == ast.RedirAppend {
			mode = stream.APPEND
		}
		h, err := ip.handleFor(stream.KindFile, name, mode)
		if err != nil {
			return err
		}
		_, werr := h.handler.Write(h.data, []byte(out))
		return werr
	case ast.RedirPipe, ast.RedirCoPipe:
		name, err := ip.evalDestName(n.Dest)
		if err != nil {
			return err
		}
		mode := stream.WRITE
		if n.Redirect == ast.RedirCoPipe {
			mode = stream.RW
		}
		h, err := ip.handleFor(stream.KindPipe, name, mode)
		if err != nil {
			return err
		}
		_, werr := h.handler.Write(h.data, []byte(out))
		return werr
	}
	return nil
}

func (ip *Interp) evalDestName(e ast.Expr) (string, error) {
	v, err := ip.eval(e)
	if err != nil {
		return "", err
	}
	return v.ToStr(ip.convfmt()), nil
}
