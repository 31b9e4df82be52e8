package main

import "math"

// packFloat16 converts float32 values into IEEE 754-2008 binary16 bits stored
// in dst, which must be at least len(src). Used by the fp16 OpenCL field path.
func packFloat16(dst []uint16, src []float32) {
	for i, v := range src {
		dst[i] = float16Bits(v)
	}
}

// unpackFloat16 expands binary16 bits back into float32 values. dst must be at
// least len(src).
func unpackFloat16(dst []float32, src []uint16) {
	for i, v := range src {
		dst[i] = float16ToFloat32(v)
	}
}

func float16Bits(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int((bits >> 23) & 0xff)
	mant := bits & 0x7fffff

	if exp == 0xff {
		if mant == 0 {
			return sign | 0x7c00
		}
		// Preserve NaN payloads where possible.
		payload := uint16(mant >> 13)
		if payload == 0 {
			payload = 1
		}
		return sign | 0x7c00 | payload
	}
	if exp == 0 && mant == 0 {
		return sign
	}

	halfExp := exp - 127 + 15
	if halfExp >= 0x1f {
		return sign | 0x7c00
	}
	if halfExp <= 0 {
		// Subnormal half; shift the implicit bit into range with rounding.
		if halfExp < -10 {
			return sign
		}
		m := (mant | 0x800000) >> uint(1-halfExp)
		m += 0x00001000
		return sign | uint16(m>>13)
	}

	m := mant + 0x00001000
	if m&0x00800000 != 0 {
		m = 0
		halfExp++
		if halfExp >= 0x1f {
			return sign | 0x7c00
		}
	}
	return sign | uint16(halfExp<<10) | uint16(m>>13)
}

func float16ToFloat32(half uint16) float32 {
	sign := uint32(half>>15) << 31
	exp := int((half >> 10) & 0x1f)
	mant := uint32(half & 0x3ff)

	if exp == 0x1f {
		bits := sign | 0x7f800000 | (mant << 13)
		if mant != 0 {
			bits |= 1
		}
		return math.Float32frombits(bits)
	}
	if exp == 0 {
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal half; renormalize.
		exp = -14
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		mant &= 0x3ff
		return math.Float32frombits(sign | uint32((exp+127)<<23) | (mant << 13))
	}
	return math.Float32frombits(sign | uint32((exp-15+127)<<23) | (mant << 13))
}
