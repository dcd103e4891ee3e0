package crypto

import (
	"crypto/subtle"
	"runtime"
)

// Wipe zeroes b. This is best-effort: copies made by the runtime are not reached.
//
//go:noinline
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	runtime.KeepAlive(b)
}
