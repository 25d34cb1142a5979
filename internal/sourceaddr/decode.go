// Package sourceaddr decodes the CBOR-encoded metadata pointer trailer
// appended to deployed Solidity bytecode into a storage-network address.
package sourceaddr

import (
	"encoding/binary"
	"errors"

	"github.com/sourceverify/sourceverify/internal/model"
)

// ErrNoMetadataPointer is returned when deployed bytecode carries no
// decodable CBOR trailer, or the trailer's map names no recognized
// storage key.
var ErrNoMetadataPointer = errors.New("sourceaddr: no metadata pointer in bytecode")

var storageKeys = []model.StorageNetwork{model.StorageIPFS, model.StorageBzzr0, model.StorageBzzr1}

// Decode extracts the metadata pointer trailer from deployed bytecode. The
// trailer's length is encoded big-endian in the bytecode's final two
// bytes; the preceding bytes are a CBOR map whose keys name the storage
// network.
func Decode(bytecode []byte) (model.SourceAddress, error) {
	if len(bytecode) < 2 {
		return model.SourceAddress{}, ErrNoMetadataPointer
	}

	trailerLen := int(binary.BigEndian.Uint16(bytecode[len(bytecode)-2:]))
	if trailerLen <= 0 || trailerLen+2 > len(bytecode) {
		return model.SourceAddress{}, ErrNoMetadataPointer
	}

	cborBlob := bytecode[len(bytecode)-2-trailerLen : len(bytecode)-2]

	reader := &cborReader{buf: cborBlob}
	fields, err := reader.readMap()
	if err != nil {
		return model.SourceAddress{}, ErrNoMetadataPointer
	}

	for _, network := range storageKeys {
		if v, ok := fields[string(network)]; ok && v.isBytes {
			return model.SourceAddress{Network: network, Digest: v.bytes}, nil
		}
	}

	return model.SourceAddress{}, ErrNoMetadataPointer
}
