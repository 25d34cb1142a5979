package model

// StorageNetwork identifies which decentralized store a SourceAddress
// points into.
type StorageNetwork string

const (
	StorageIPFS  StorageNetwork = "ipfs"
	StorageBzzr0 StorageNetwork = "bzzr0"
	StorageBzzr1 StorageNetwork = "bzzr1"
)

// SourceAddress is a decoded metadata pointer extracted from a deployed
// contract's bytecode trailer: a storage network plus a content digest.
type SourceAddress struct {
	Network StorageNetwork
	Digest  []byte
}
