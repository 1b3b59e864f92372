package vu

import "math"

// ClampSigned16 saturates a wide intermediate to [-32768, 32767].
func ClampSigned16(v int64) int16 {
	switch {
	case v < math.MinInt16:
		return math.MinInt16
	case v > math.MaxInt16:
		return math.MaxInt16
	}
	return int16(v)
}

// ClampUnsigned16 saturates a wide intermediate to [0, 65535].
func ClampUnsigned16(v int64) uint16 {
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(v)
}
