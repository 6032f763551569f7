package fingerprint

import (
	"crypto"
	_ "crypto/sha256" // registers crypto.SHA256
	"encoding/hex"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"
)

// SentinelDigestUnavailable is returned in place of a fingerprint when the
// digest primitive is not available.
const SentinelDigestUnavailable = "sha256-not-supported"

// FormatMode defines the output format and length of the fingerprint.
type FormatMode int

const (
	// Format64 outputs 64 hex characters (2^6), the full 256-bit digest
	Format64 FormatMode = iota
	// Format32 outputs 32 hex characters (2^5), truncated digest
	Format32
	// Format128 outputs 128 hex characters (2^7), digest plus one re-hash
	Format128
	// Format256 outputs 256 hex characters (2^8), digest plus three chained re-hashes
	Format256
	// FormatCID outputs a CIDv1 string (raw codec) wrapping the digest as a multihash
	FormatCID
)

// String returns the flag spelling of the format.
func (m FormatMode) String() string {
	switch m {
	case Format32:
		return "32"
	case Format64:
		return "64"
	case Format128:
		return "128"
	case Format256:
		return "256"
	case FormatCID:
		return "cid"
	default:
		return fmt.Sprintf("FormatMode(%d)", int(m))
	}
}

// Digester is the digest primitive used to reduce the canonical form.
// Availability is checked on every call, not when the Provider is built.
type Digester interface {
	// Name returns the algorithm name, e.g. "sha256".
	Name() string
	// Available reports whether the primitive can be used right now.
	Available() bool
	// Sum returns the digest of data.
	Sum(data []byte) []byte
	// MultihashCode returns the multicodec code of the algorithm.
	MultihashCode() uint64
}

type sha256Digester struct{}

// SHA256 returns the default SHA-256 [Digester].
func SHA256() Digester { return sha256Digester{} }

func (sha256Digester) Name() string          { return "sha256" }
func (sha256Digester) Available() bool       { return crypto.SHA256.Available() }
func (sha256Digester) MultihashCode() uint64 { return multihash.SHA2_256 }

func (sha256Digester) Sum(data []byte) []byte {
	h := crypto.SHA256.New()
	h.Write(data)

	return h.Sum(nil)
}

type sha3Digester struct{}

// SHA3256 returns a SHA3-256 [Digester].
func SHA3256() Digester { return sha3Digester{} }

func (sha3Digester) Name() string          { return "sha3-256" }
func (sha3Digester) Available() bool       { return crypto.SHA3_256.Available() }
func (sha3Digester) MultihashCode() uint64 { return multihash.SHA3_256 }

func (sha3Digester) Sum(data []byte) []byte {
	sum := sha3.Sum256(data)

	return sum[:]
}

// hexDigest returns the hex encoded digest of data. A nil d uses SHA-256.
func hexDigest(d Digester, data []byte) (string, error) {
	if d == nil {
		d = SHA256()
	}
	if !d.Available() {
		return "", fmt.Errorf("%w: %s", ErrDigestUnavailable, d.Name())
	}

	return hex.EncodeToString(d.Sum(data)), nil
}

// DigesterByName returns the built-in [Digester] with the given name.
func DigesterByName(name string) (Digester, error) {
	switch name {
	case "", "sha256", "sha2-256":
		return SHA256(), nil
	case "sha3-256", "sha3":
		return SHA3256(), nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm %q; valid values are sha256, sha3-256", name)
	}
}

// reduce hashes the canonical form with an optional salt and shapes the
// result according to mode. If d is nil or unavailable it returns
// [SentinelDigestUnavailable] together with [ErrDigestUnavailable].
func reduce(canonical []byte, salt string, d Digester, mode FormatMode) (string, error) {
	if d == nil || !d.Available() {
		return SentinelDigestUnavailable, ErrDigestUnavailable
	}

	input := canonical
	if salt != "" {
		input = append([]byte(salt+"|"), canonical...)
	}

	sum := d.Sum(input)
	if mode == FormatCID {
		return formatCID(sum, d.MultihashCode())
	}

	return formatHash(hex.EncodeToString(sum), mode, d), nil
}

// formatHash formats a 64-character hex digest according to the specified mode.
// All hex formats produce power-of-2 lengths without dashes.
func formatHash(hash string, mode FormatMode, d Digester) string {
	if len(hash) != 64 {
		return hash
	}

	rehash := func(s string) string {
		return hex.EncodeToString(d.Sum([]byte(s)))
	}

	switch mode {
	case Format32:
		return hash[:32]

	case Format128:
		return hash + rehash(hash)

	case Format256:
		hash2 := rehash(hash)
		hash3 := rehash(hash2)
		hash4 := rehash(hash3)

		return hash + hash2 + hash3 + hash4

	default:
		return hash
	}
}

// formatCID wraps sum as a multihash and returns its CIDv1 string.
func formatCID(sum []byte, code uint64) (string, error) {
	mh, err := multihash.Encode(sum, code)
	if err != nil {
		return "", fmt.Errorf("encoding multihash: %w", err)
	}

	return cid.NewCidV1(cid.Raw, multihash.Multihash(mh)).String(), nil
}
