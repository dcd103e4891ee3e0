package crypto

// Clamp applies the RFC 7748 X25519 scalar clamping to a copy of k.
func Clamp(k [32]byte) [32]byte {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
	return k
}

// Unclamp maps a clamped signing scalar onto the bit pattern used when the
// same scalar is reused for base-point agreement: bits 1 and 2 of the low
// byte are set, the top bit is set and the second-highest bit cleared.
func Unclamp(k [32]byte) [32]byte {
	k[0] |= 6
	k[31] |= 0x80
	k[31] &^= 0x40
	return k
}
