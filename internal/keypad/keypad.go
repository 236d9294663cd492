// Package keypad maps a QWERTY keyboard to the 16 key hexadecimal CHIP-8 keypad.
package keypad

import "unicode"

// The left side of a QWERTY keyboard is mapped to the keypad layout of the
// COSMAC VIP.
//
//	+--------+--------+--------+--------+
//	| 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
//	+--------+--------+--------+--------+
//	| Q -> 4 | W -> 5 | E -> 6 | R -> D |
//	+--------+--------+--------+--------+
//	| A -> 7 | S -> 8 | D -> 9 | F -> E |
//	+--------+--------+--------+--------+
//	| Z -> A | X -> 0 | C -> B | V -> F |
//	+--------+--------+--------+--------+
var layout = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Lookup returns the keypad key for a keyboard character. Letters are
// matched case-insensitively.
func Lookup(r rune) (uint8, bool) {
	key, ok := layout[unicode.ToLower(r)]
	return key, ok
}

// Label returns the keyboard character that is mapped to the given keypad key.
func Label(key uint8) (rune, bool) {
	for r, k := range layout {
		if k == key {
			return unicode.ToUpper(r), true
		}
	}
	return 0, false
}
