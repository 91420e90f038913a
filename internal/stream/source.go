package stream

import (
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// OSSource is the Source handler: it loads program source text (the
// top-level script file, or an `@include`d one) from disk, transcoding a
// UTF-16 (BOM-prefixed, either endianness) file to UTF-8 before the lexer
// ever sees it. Every other encoding is passed through untouched — the
// lexer itself only ever operates on decoded UTF-8 runes, keeping spec.md
// §9's byte/wide-duality redesign note intact without smuggling encoding
// concerns into the lexer.
//
// Grounded on the DOMAIN STACK entry wiring golang.org/x/text/encoding/
// unicode + golang.org/x/text/transform for this exact purpose.
type OSSource struct{}

// Load reads and BOM-sniffs name, returning decoded UTF-8 source text.
func (OSSource) Load(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return decodeUTF16IfBOM(f)
}

func decodeUTF16IfBOM(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !hasUTF16BOM(raw) {
		return string(raw), nil
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hasUTF16BOM(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	return (b[0] == 0xFE && b[1] == 0xFF) || (b[0] == 0xFF && b[1] == 0xFE)
}

// Loader adapts OSSource.Load to internal/parser.SourceLoader's plain
// function signature — @include resolution never goes through the
// Handler/Provider machinery the other three stream kinds use, since it
// runs entirely at parse time, before any interpreter exists to own a
// Provider.
func Loader() func(path string) (string, error) {
	var s OSSource
	return s.Load
}
