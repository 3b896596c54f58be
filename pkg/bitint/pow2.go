// SPDX-License-Identifier: MIT

// Package bitint provides power-of-2 helpers for GPU texture and buffer
// sizing. Ramp shades, mask dimensions, and magnitude buffer capacities
// are kept at powers of two so texture addressing stays exact on GL
// implementations that only guarantee power-of-two behavior for
// clamped, linearly filtered lookups.
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size.
// Powers of 2 are returned unchanged; zero and negative
// sizes map to 1.
//
// The size-1 subtraction is what preserves exact powers of 2:
// bits.Len(7) = 3 so 8 stays 8, while bits.Len(8) = 4 would
// incorrectly double it.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	if ^uint(0)>>63 == 0 {
		return int(1 << bits.Len64(uint64(size-1)))
	}
	return int(1 << bits.Len32(uint32(size-1)))
}

// IsPowerOfTwo reports whether n is a positive power of 2.
// Powers of 2 have exactly one bit set, so n&(n-1) clears it.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
