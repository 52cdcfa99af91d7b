package apu

// ToUnsigned biases a signed 8-bit mix into unsigned 8-bit samples in place.
func ToUnsigned(b []byte) []byte {
	for i := range b {
		b[i] ^= 0x80
	}
	return b
}

// ToInt16 widens signed 8-bit samples to 16-bit.
func ToInt16(b []byte) []int16 {
	out := make([]int16, len(b))
	for i, v := range b {
		out[i] = int16(int8(v)) << 8
	}
	return out
}

// AppendInt16LE widens signed 8-bit samples into little-endian 16-bit bytes.
func AppendInt16LE(dst, b []byte) []byte {
	for _, v := range b {
		s := uint16(int16(int8(v)) << 8)
		dst = append(dst, byte(s), byte(s>>8))
	}
	return dst
}
