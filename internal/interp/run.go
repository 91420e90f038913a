package interp

import (
	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/value"
)

// Run executes the compiled program's full BEGIN/main-loop/END lifecycle
// (spec.md §4.5) and returns the process exit code: the argument to the
// first `exit` executed, 0 if none, or a non-zero code if a runtime error
// escaped every phase.
func (ip *Interp) Run() (int, error) {
	sig, err := ip.runBlocks(ip.compiled.Program.Begin)
	if err != nil {
		return 1, err
	}
	if sig.Kind == SigExit {
		ip.markExit(sig)
	}

	// exit from BEGIN or the main loop still runs END exactly once (spec.md
	// §4.5); only an exit that happens while already inside END is terminal.
	if !ip.exiting && ip.needsMainLoop() {
		if err := ip.runMainLoop(); err != nil {
			return 1, err
		}
	}

	sig, err = ip.runBlocks(ip.compiled.Program.End)
	if err != nil {
		return 1, err
	}
	if sig.Kind == SigExit {
		ip.markExit(sig)
	}
	return ip.exitCode, nil
}

// needsMainLoop mirrors awk's rule that a program consisting solely of a
// BEGIN block (no rules, no END) never reads input.
func (ip *Interp) needsMainLoop() bool {
	p := ip.compiled.Program
	return len(p.Rules) > 0 || len(p.End) > 0
}

func (ip *Interp) runBlocks(blocks []*ast.BlockStmt) (Signal, error) {
	for _, b := range blocks {
		sig, err := ip.execBlock(b)
		if err != nil {
			return normal, err
		}
		if sig.Kind == SigExit {
			ip.markExit(sig)
			return sig, nil
		}
	}
	return normal, nil
}

func (ip *Interp) markExit(sig Signal) {
	ip.exiting = true
	if sig.HasCode {
		ip.exitCode = int(sig.Code)
	}
}

func (ip *Interp) runMainLoop() error {
	ip.setGlobal(ip.slots.filename, value.NewStr(ip.console.CurrentName()))
	for {
		rec, ok, err := ip.nextConsoleRecord()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		ip.setRecord(rec)
		ip.record.fieldsValid = false
		ip.setGlobal(ip.slots.nr, value.NewInt(ip.getGlobal(ip.slots.nr).ToInt()+1))
		ip.setGlobal(ip.slots.fnr, value.NewInt(ip.getGlobal(ip.slots.fnr).ToInt()+1))
		ip.setGlobal(ip.slots.filename, value.NewStr(ip.console.CurrentName()))

		sig, err := ip.runRules()
		if err != nil {
			return err
		}
		switch sig.Kind {
		case SigExit:
			ip.markExit(sig)
			return nil
		case SigNextfile:
			if ip.console.Next(nil) == 0 {
				return nil
			}
			ip.consoleH = nil
		}
		if ip.halt {
			return nil
		}
	}
}

func (ip *Interp) runRules() (Signal, error) {
	for i, rule := range ip.compiled.Program.Rules {
		match, err := ip.ruleMatches(i, rule)
		if err != nil {
			return normal, err
		}
		if !match {
			continue
		}
		if rule.Action == nil {
			if err := ip.execPrint(&ast.PrintStmt{}); err != nil {
				return normal, err
			}
			continue
		}
		sig, err := ip.execBlock(rule.Action)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigNext:
			return normal, nil
		case SigNextfile, SigExit:
			return sig, nil
		}
	}
	return normal, nil
}

func (ip *Interp) ruleMatches(i int, rule *ast.Rule) (bool, error) {
	switch rule.Kind {
	case ast.PatternAlways:
		return true, nil
	case ast.PatternExpr:
		v, err := ip.eval(rule.Start)
		if err != nil {
			return false, err
		}
		return v.ToBool(), nil
	case ast.PatternRegex:
		re, err := ip.regexOf(rule.Start)
		if err != nil {
			return false, err
		}
		return re.MatchString(ip.getField(0)), nil
	case ast.PatternRange:
		return ip.rangeMatches(i, rule)
	}
	return false, nil
}

func (ip *Interp) rangeMatches(i int, rule *ast.Rule) (bool, error) {
	if !ip.rangeIn[i] {
		sv, err := ip.eval(rule.Start)
		if err != nil {
			return false, err
		}
		if !sv.ToBool() {
			return false, nil
		}
		ip.rangeIn[i] = true
	}
	ev, err := ip.eval(rule.End)
	if err != nil {
		return false, err
	}
	if ev.ToBool() {
		ip.rangeIn[i] = false
	}
	return true, nil
}
