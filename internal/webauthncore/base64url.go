package webauthncore

// EncodeNoPad implements RFC 4648 §5 base64url without padding. A
// from-scratch implementation is used rather than stdlib's
// base64.RawURLEncoding to keep the exact byte-for-byte behavior
// the contract's challenge binding depends on pinned in
// one place, mirroring how the original contract hand-rolls this
// routine rather than relying on a host-provided codec.
func EncodeNoPad(input []byte) []byte {
	const table = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	chunks := len(input) / 3
	remainder := len(input) % 3

	out := make([]byte, 0, chunks*4+(remainder*4+2)/3)

	for i := 0; i < chunks; i++ {
		b0, b1, b2 := uint32(input[i*3]), uint32(input[i*3+1]), uint32(input[i*3+2])
		triple := (b0 << 16) | (b1 << 8) | b2
		out = append(out,
			table[(triple>>18)&0x3f],
			table[(triple>>12)&0x3f],
			table[(triple>>6)&0x3f],
			table[triple&0x3f],
		)
	}

	switch remainder {
	case 2:
		b0, b1 := uint32(input[chunks*3]), uint32(input[chunks*3+1])
		triple := (b0 << 16) | (b1 << 8)
		out = append(out, table[(triple>>18)&0x3f], table[(triple>>12)&0x3f], table[(triple>>6)&0x3f])
	case 1:
		b0 := uint32(input[chunks*3])
		triple := b0 << 16
		out = append(out, table[(triple>>18)&0x3f], table[(triple>>12)&0x3f])
	}

	return out
}

// decodeTable maps an ASCII byte to its base64url sextet, or 0xff if
// the byte is not part of the alphabet.
var decodeTable = buildDecodeTable()

func buildDecodeTable() [256]byte {
	const table = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	var t [256]byte
	for i := range t {
		t[i] = 0xff
	}
	for i := 0; i < len(table); i++ {
		t[table[i]] = byte(i)
	}
	return t
}

// DecodeNoPad decodes an unpadded base64url string per RFC 4648 §5.
func DecodeNoPad(input []byte) ([]byte, error) {
	n := len(input)
	if n%4 == 1 {
		return nil, errInvalidBase64Length
	}

	out := make([]byte, 0, n*3/4+3)
	var buf uint32
	var bits int

	for _, c := range input {
		v := decodeTable[c]
		if v == 0xff {
			return nil, errInvalidBase64Char
		}
		buf = (buf << 6) | uint32(v)
		bits += 6
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buf>>uint(bits)))
		}
	}

	return out, nil
}
