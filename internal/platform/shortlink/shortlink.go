// Package shortlink maps recipe ids to compact base62 codes and back.
package shortlink

import (
	"errors"
	"math"
	"strings"
)

const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = uint64(len(Alphabet))

var (
	ErrEmptyCode   = errors.New("shortlink: empty code")
	ErrInvalidCode = errors.New("shortlink: invalid symbol")
	ErrOverflow    = errors.New("shortlink: code overflows int64")
	ErrLeadingZero = errors.New("shortlink: leading zero")
)

// Encode renders n most-significant digit first. Negative ids are not
// produced by the database; they encode as "0".
func Encode(n int64) string {
	if n <= 0 {
		return "0"
	}
	v := uint64(n)
	var buf [11]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = Alphabet[v%base]
		v /= base
	}
	return string(buf[i:])
}

// Decode accepts only the canonical form Encode produces, so every id has
// exactly one code.
func Decode(code string) (int64, error) {
	if code == "" {
		return 0, ErrEmptyCode
	}
	if len(code) > 1 && code[0] == '0' {
		return 0, ErrLeadingZero
	}
	var v uint64
	for i := 0; i < len(code); i++ {
		d := strings.IndexByte(Alphabet, code[i])
		if d < 0 {
			return 0, ErrInvalidCode
		}
		if v > (math.MaxInt64-uint64(d))/base {
			return 0, ErrOverflow
		}
		v = v*base + uint64(d)
	}
	return int64(v), nil
}
