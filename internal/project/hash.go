package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine builds an aggregate hash H(root || dep1 || dep2 ...). Callers
// must pass deps in a deterministic order.
func Combine(root Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(root[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashPath keys a cache entry by the schema's root path. Keying by path
// rather than content lets a recompile of changed sources find the
// previous descriptor for the evolution check.
func HashPath(path string) Digest {
	return sha256.Sum256([]byte(path))
}
