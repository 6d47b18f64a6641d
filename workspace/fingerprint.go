// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/expogrid/expogrid/wm"
)

// Fingerprint summarizes a workspace's window geometry and focus
// state. Two leaf lists differing in any of (id, x, y, width, height,
// focused), or in order or length, produce different fingerprints.
//
// The zero value means "never computed" and never collides with a
// computed digest: even an empty leaf list hashes to a non-zero value.
type Fingerprint [32]byte

// IsZero reports whether the fingerprint has never been computed.
func (f Fingerprint) IsZero() bool { return f == Fingerprint{} }

// FingerprintOf computes the fingerprint of an ordered leaf list.
func FingerprintOf(leaves []wm.Leaf) Fingerprint {
	encoded := make([]byte, 0, len(leaves)*40)
	var scratch [8]byte
	appendInt := func(v int64) {
		binary.LittleEndian.PutUint64(scratch[:], uint64(v))
		encoded = append(encoded, scratch[:]...)
	}
	for _, leaf := range leaves {
		appendInt(leaf.ID)
		appendInt(int64(leaf.Rect.X))
		appendInt(int64(leaf.Rect.Y))
		appendInt(int64(leaf.Rect.Width))
		appendInt(int64(leaf.Rect.Height))
		if leaf.Focused {
			encoded = append(encoded, 1)
		} else {
			encoded = append(encoded, 0)
		}
	}
	return blake3.Sum256(encoded)
}
