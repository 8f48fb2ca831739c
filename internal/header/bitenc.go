package header

// Packing markers. A payload whose first string starts with utf8ModeMarker
// stores one byte per character; one starting with the 8-to-7 marker (or no
// marker at all) stores 7 payload bits per character.
const (
	utf8ModeMarker     = '\u0000'
	eightToSevenMarker = '\uffff'
)

// DecodeBytes reassembles the packed payload strings into protobuf bytes.
func DecodeBytes(data []string) []byte {
	if len(data) > 0 && data[0] != "" {
		first := []rune(data[0])[0]
		switch first {
		case utf8ModeMarker:
			return stringsToBytes(dropMarker(data))
		case eightToSevenMarker:
			data = dropMarker(data)
		}
	}

	b := stringsToBytes(data)
	// Adding 0x7f modulo 128 undoes the +1 applied by the encoder.
	for i := range b {
		b[i] = (b[i] + 0x7f) & 0x7f
	}
	return decode7to8(b)
}

func dropMarker(data []string) []string {
	out := make([]string, len(data))
	copy(out, data)
	out[0] = string([]rune(out[0])[1:])
	return out
}

// stringsToBytes keeps the low byte of every character.
func stringsToBytes(data []string) []byte {
	n := 0
	for _, s := range data {
		for range s {
			n++
		}
	}
	out := make([]byte, 0, n)
	for _, s := range data {
		for _, r := range s {
			out = append(out, byte(r))
		}
	}
	return out
}

// decode7to8 concatenates the low 7 bits of every input byte into one bit
// string and splits it back into 8-bit bytes. Trailing padding bits that do
// not form a whole byte are dropped.
//
//	in:  0123456- 0123456- 0123456- 0123456-
//	out: 01234560 12345601 23456012
func decode7to8(data []byte) []byte {
	n := 7 * len(data) / 8
	out := make([]byte, n)

	idx, bit := 0, 0
	for i := 0; i < n; i++ {
		first := int(data[idx]) >> bit
		idx++
		second := (int(data[idx]) & ((1 << (bit + 1)) - 1)) << (7 - bit)
		out[i] = byte(first + second)

		if bit == 6 {
			idx++
			bit = 0
		} else {
			bit++
		}
	}
	return out
}
