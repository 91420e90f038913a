package parser

import (
	"strconv"

	"github.com/hawklang/hawk/internal/value"
)

func parseIntLit(lit string) (int64, error) {
	return value.ParseIntLiteral(lit)
}

func parseFloatLit(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}
