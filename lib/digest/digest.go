// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes BLAKE3 content digests for delivery files.
// A digest is recorded when a delivery is uploaded and printed by the
// CLI so both sides of a project can verify they are looking at the
// same bytes.
package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// deliveryDomainKey is the 32-byte key for BLAKE3 keyed hashing.
// Domain separation keeps delivery digests distinct from any other
// BLAKE3 use of the same bytes. Fixed constant — changing it
// invalidates all recorded digests. The byte values are the ASCII
// encoding of the domain name, zero-padded to 32 bytes, so the key is
// inspectable in hex dumps without sacrificing any cryptographic
// property.
var deliveryDomainKey = [32]byte{
	'a', 't', 'e', 'l', 'i', 'e', 'r', '.', 'd', 'e', 'l', 'i', 'v', 'e', 'r', 'y',
	'.', 'f', 'i', 'l', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Hash computes the delivery-domain digest of the given bytes.
func Hash(data []byte) Digest {
	hasher := newHasher()
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// Hasher streams data into a delivery-domain digest. Useful as the
// tee target while uploading, so the digest comes for free with the
// transfer.
type Hasher struct {
	inner *blake3.Hasher
}

// NewHasher returns a streaming hasher. It implements io.Writer.
func NewHasher() *Hasher {
	return &Hasher{inner: newHasher()}
}

// Write feeds data into the digest. Never returns an error.
func (h *Hasher) Write(data []byte) (int, error) {
	return h.inner.Write(data)
}

// Sum returns the digest of everything written so far. The hasher
// remains usable; further writes extend the stream.
func (h *Hasher) Sum() Digest {
	var digest Digest
	copy(digest[:], h.inner.Sum(nil))
	return digest
}

// HashReader consumes the reader to EOF and returns the digest and
// the number of bytes read.
func HashReader(reader io.Reader) (Digest, int64, error) {
	hasher := NewHasher()
	size, err := io.Copy(hasher, reader)
	if err != nil {
		return Digest{}, 0, fmt.Errorf("digest: reading content: %w", err)
	}
	return hasher.Sum(), size, nil
}

// HashFile returns the digest of a file's contents.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("digest: opening %s: %w", path, err)
	}
	defer file.Close()
	digest, _, err := HashReader(file)
	if err != nil {
		return Digest{}, fmt.Errorf("digest: hashing %s: %w", path, err)
	}
	return digest, nil
}

// Format returns the hex-encoded string representation of a digest.
// This is the canonical format used in logs and CLI output.
func Format(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing delivery digest: %w", err)
	}
	if len(decoded) != 32 {
		return digest, fmt.Errorf("delivery digest is %d bytes, want 32", len(decoded))
	}
	copy(digest[:], decoded)
	return digest, nil
}

// FormatRef returns the short delivery reference: the "dlv-" prefix
// followed by the first 12 hex characters.
func FormatRef(digest Digest) string {
	return "dlv-" + hex.EncodeToString(digest[:6])
}

func newHasher() *blake3.Hasher {
	// NewKeyed requires exactly 32 bytes, which the fixed-size key
	// guarantees; the error is only returned for wrong key length.
	hasher, err := blake3.NewKeyed(deliveryDomainKey[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}
