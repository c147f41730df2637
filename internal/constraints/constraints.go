// Package constraints provides type constraints shared by the internal packages.
package constraints

// Byteseq is a string or a byte slice, the input accepted by parsers.
type Byteseq interface {
	~string | ~[]byte
}
