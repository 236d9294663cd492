package chip8

// Quirks selects between behaviours that differ across CHIP-8
// interpreters. The zero value is the behaviour of most modern interpreters.
type Quirks struct {
	// ShiftUsesVY makes 8xy6 and 8xyE shift Vy and store the result in Vx,
	// as the COSMAC VIP interpreter did. Otherwise Vx is shifted in place.
	ShiftUsesVY bool

	// LoadStoreIncrementsI leaves I pointing past the last register
	// transferred by Fx55 and Fx65 (I += x + 1). Otherwise I is unchanged.
	LoadStoreIncrementsI bool
}
