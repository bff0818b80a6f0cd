package dedupe

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"

	"curator/internal/scan"
)

// Algorithm names a supported content digest. Only digests of at least 256
// bits are accepted; weaker ones make accidental collision between distinct
// contents a real risk at archive scale.
type Algorithm string

const (
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmSHA512 Algorithm = "sha512"
)

// DefaultAlgorithm is used when callers do not pick one.
const DefaultAlgorithm = AlgorithmSHA256

// ParseAlgorithm converts a string into a supported Algorithm. Weak digests
// such as md5 and sha1 are rejected with scan.ErrInvalidArgument.
func ParseAlgorithm(value string) (Algorithm, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "":
		return DefaultAlgorithm, nil
	case string(AlgorithmSHA256):
		return AlgorithmSHA256, nil
	case string(AlgorithmSHA512):
		return AlgorithmSHA512, nil
	case "md5", "sha1":
		return "", scan.Wrap(scan.ErrInvalidArgument, "parse algorithm", normalized+" digest is too weak", nil)
	default:
		return "", scan.Wrap(scan.ErrInvalidArgument, "parse algorithm", normalized, nil)
	}
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case AlgorithmSHA512:
		return sha512.New()
	default:
		return sha256.New()
	}
}
