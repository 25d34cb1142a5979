package sourceaddr

import "errors"

// errShortBuffer is returned by the minimal CBOR reader when it runs past
// the end of the slice it was handed.
var errShortBuffer = errors.New("sourceaddr: truncated cbor")

// cborReader decodes the narrow subset of CBOR the Solidity compiler
// emits for its bytecode trailer: a definite-length map whose keys are
// text strings and whose values are byte strings or unsigned integers. No
// CBOR library appears anywhere in the retrieved examples corpus, so this
// reader is hand-rolled against encoding/binary rather than adopting a
// dependency with no grounding in the corpus; see DESIGN.md.
type cborReader struct {
	buf []byte
	pos int
}

func (r *cborReader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, errShortBuffer
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *cborReader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, errShortBuffer
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// readHead reads a CBOR initial byte and returns its major type (top 3
// bits) and argument (resolved additional-information value).
func (r *cborReader) readHead() (major byte, arg uint64, err error) {
	b, err := r.byte()
	if err != nil {
		return 0, 0, err
	}
	major = b >> 5
	info := b & 0x1f

	switch {
	case info < 24:
		return major, uint64(info), nil
	case info == 24:
		v, err := r.byte()
		return major, uint64(v), err
	case info == 25:
		b, err := r.bytes(2)
		if err != nil {
			return 0, 0, err
		}
		return major, uint64(b[0])<<8 | uint64(b[1]), nil
	case info == 26:
		b, err := r.bytes(4)
		if err != nil {
			return 0, 0, err
		}
		var v uint64
		for _, x := range b {
			v = v<<8 | uint64(x)
		}
		return major, v, nil
	case info == 27:
		b, err := r.bytes(8)
		if err != nil {
			return 0, 0, err
		}
		var v uint64
		for _, x := range b {
			v = v<<8 | uint64(x)
		}
		return major, v, nil
	default:
		return 0, 0, errors.New("sourceaddr: unsupported cbor additional info")
	}
}

// cborValue is the decoded form of one of the narrow set of CBOR values
// this reader understands.
type cborValue struct {
	isBytes bool
	isUint  bool
	bytes   []byte
	uint    uint64
}

// readValue reads one CBOR value: a byte string (major type 2), a text
// string (major type 3, treated as opaque bytes), or an unsigned integer
// (major type 0).
func (r *cborReader) readValue() (cborValue, error) {
	major, arg, err := r.readHead()
	if err != nil {
		return cborValue{}, err
	}

	switch major {
	case 0:
		return cborValue{isUint: true, uint: arg}, nil
	case 2, 3:
		b, err := r.bytes(int(arg))
		if err != nil {
			return cborValue{}, err
		}
		return cborValue{isBytes: true, bytes: b}, nil
	default:
		return cborValue{}, errors.New("sourceaddr: unsupported cbor major type")
	}
}

// readMap reads a definite-length CBOR map (major type 5) whose keys are
// text strings, returning a map of key string to decoded value.
func (r *cborReader) readMap() (map[string]cborValue, error) {
	major, count, err := r.readHead()
	if err != nil {
		return nil, err
	}
	if major != 5 {
		return nil, errors.New("sourceaddr: expected cbor map")
	}

	out := make(map[string]cborValue, count)
	for i := uint64(0); i < count; i++ {
		key, err := r.readValue()
		if err != nil {
			return nil, err
		}
		if !key.isBytes {
			return nil, errors.New("sourceaddr: expected text-string map key")
		}
		val, err := r.readValue()
		if err != nil {
			return nil, err
		}
		out[string(key.bytes)] = val
	}
	return out, nil
}
