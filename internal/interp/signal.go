package interp

import "github.com/hawklang/hawk/internal/value"

// SignalKind is the control signal every statement execution returns
// (spec.md §4.5): "NORMAL, BREAK, CONTINUE, RETURN(v), NEXT, NEXTFILE,
// EXIT(n)". Compound statements propagate a non-NORMAL signal outward
// until something consumes it (a loop eats BREAK/CONTINUE, a call eats
// RETURN, the main loop eats NEXT/NEXTFILE, the driver eats EXIT).
type SignalKind int

const (
	SigNormal SignalKind = iota
	SigBreak
	SigContinue
	SigReturn
	SigNext
	SigNextfile
	SigExit
)

// Signal carries a SignalKind plus the one payload a RETURN/EXIT needs.
type Signal struct {
	Kind    SignalKind
	Value   value.Value // RETURN's value
	Code    int64       // EXIT's status code
	HasCode bool
}

var normal = Signal{Kind: SigNormal}
