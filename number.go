package edvm

import (
	"strconv"
)

// parseNumber parses a non-negative integer literal. Literals are decimal unless prefixed with 0x
// (hexadecimal), 0b (binary) or 0o (octal). Signs are rejected. A literal which does not fit into
// 64 bits returns an error wrapping strconv.ErrRange.
func parseNumber(s string) (uint64, error) {
	base := 10
	digits := s
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 10 {
			digits = s[2:]
		}
	}

	return strconv.ParseUint(digits, base, 64)
}
