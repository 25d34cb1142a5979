package model

// PathBlob is an opaque input unit: a byte buffer plus the path it was
// loaded from. The path is a diagnostic key only; reconciliation keys
// exclusively by content hash (see internal/validate).
type PathBlob struct {
	Path    string
	Content []byte
}

// PathContent is the UTF-8 decoded view of a PathBlob. Sources that do not
// round-trip through UTF-8 simply never match a hash and are reported as
// unused.
type PathContent struct {
	Path    string
	Content string
}
