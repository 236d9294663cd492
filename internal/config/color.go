package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 32 bit colour in 0xRRGGBBAA notation.
type Color uint32

// ParseColor parses a hexadecimal colour. An optional 0x or # prefix is
// accepted, 6 digit values are treated as fully opaque.
func ParseColor(s string) (Color, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "#")
	if len(digits) != 6 && len(digits) != 8 {
		return 0, fmt.Errorf("invalid colour '%s': expected 6 or 8 hex digits", s)
	}

	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid colour '%s': %w", s, err)
	}
	if len(digits) == 6 {
		value = value<<8 | 0xFF
	}
	return Color(value), nil
}

// RGBA returns the colour components.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGB returns the colour as 0xRRGGBB, dropping the alpha channel.
func (c Color) RGB() uint32 {
	return uint32(c >> 8)
}

func (c Color) String() string {
	return fmt.Sprintf("0x%08X", uint32(c))
}

// Set implements flag.Value.
func (c *Color) Set(s string) error {
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
