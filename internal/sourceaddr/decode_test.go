package sourceaddr

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/sourceverify/sourceverify/internal/model"
)

// cborTextString encodes a CBOR major-type-3 text string.
func cborTextString(s string) []byte {
	return append(cborHead(3, uint64(len(s))), []byte(s)...)
}

// cborByteString encodes a CBOR major-type-2 byte string.
func cborByteString(b []byte) []byte {
	return append(cborHead(2, uint64(len(b))), b...)
}

func cborHead(major byte, arg uint64) []byte {
	if arg < 24 {
		return []byte{major<<5 | byte(arg)}
	}
	if arg <= 0xff {
		return []byte{major<<5 | 24, byte(arg)}
	}
	b := make([]byte, 3)
	b[0] = major<<5 | 25
	binary.BigEndian.PutUint16(b[1:], uint16(arg))
	return b
}

// buildTrailer encodes a one-entry CBOR map { key: byteString(value) }
// followed by the big-endian two-byte trailer length, as Solidity emits.
func buildTrailer(key string, value []byte) []byte {
	var blob bytes.Buffer
	blob.Write(cborHead(5, 1))
	blob.Write(cborTextString(key))
	blob.Write(cborByteString(value))

	lenBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBytes, uint16(blob.Len()))

	out := append([]byte{}, blob.Bytes()...)
	out = append(out, lenBytes...)
	return out
}

func TestDecodeIPFS(t *testing.T) {
	digest := []byte{0x12, 0x20, 0xaa, 0xbb}
	trailer := buildTrailer("ipfs", digest)
	bytecode := append([]byte{0x60, 0x80, 0x60, 0x40}, trailer...)

	addr, err := Decode(bytecode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Network != model.StorageIPFS {
		t.Fatalf("expected ipfs network, got %s", addr.Network)
	}
	if !bytes.Equal(addr.Digest, digest) {
		t.Fatalf("digest mismatch: got %x want %x", addr.Digest, digest)
	}
}

func TestDecodeBzzr1(t *testing.T) {
	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = byte(i)
	}
	trailer := buildTrailer("bzzr1", digest)
	bytecode := append([]byte{0x60, 0x80}, trailer...)

	addr, err := Decode(bytecode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Network != model.StorageBzzr1 {
		t.Fatalf("expected bzzr1 network, got %s", addr.Network)
	}
	if !bytes.Equal(addr.Digest, digest) {
		t.Fatalf("digest mismatch")
	}
}

func TestDecodeNoTrailer(t *testing.T) {
	if _, err := Decode([]byte{0x60, 0x80, 0x60, 0x40}); err != ErrNoMetadataPointer {
		t.Fatalf("expected ErrNoMetadataPointer, got %v", err)
	}
}

func TestDecodeEmptyBytecode(t *testing.T) {
	if _, err := Decode(nil); err != ErrNoMetadataPointer {
		t.Fatalf("expected ErrNoMetadataPointer, got %v", err)
	}
}
