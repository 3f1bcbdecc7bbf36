package netutil

import (
	"strconv"
	"strings"
)

// AddrKey converts a dotted-quad IPv4 string to a 32-bit sort key so
// addresses order numerically per octet (9.0.0.1 before 10.0.0.1).
// Anything that is not four decimal octets keys as 0 and sorts first.
func AddrKey(addr string) uint32 {
	parts := strings.Split(addr, ".")
	if len(parts) != 4 {
		return 0
	}

	var key uint32
	for _, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return 0
		}
		key = key<<8 | uint32(n)
	}
	return key
}
