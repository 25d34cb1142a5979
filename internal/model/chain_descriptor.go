package model

// ChainDescriptor configures one monitored chain: its id, a display name,
// and the RPC endpoints to probe on startup, in probe order.
type ChainDescriptor struct {
	ChainID   uint64
	Name      string
	RPCURLs   []string
	TestChain bool
}
