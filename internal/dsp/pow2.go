// SPDX-License-Identifier: MIT
package dsp

import "math/bits"

// nextPowerOfTwo returns the smallest power of 2 >= size. The size-1 keeps
// exact powers of two unchanged. Non-positive sizes return 1.
func nextPowerOfTwo(size int) int {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

