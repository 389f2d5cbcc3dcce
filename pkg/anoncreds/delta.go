/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

// MergeDeltas folds next into prev. The accumulator is taken from next, an index issued
// by next is no longer revoked and an index revoked by next is no longer issued.
func MergeDeltas(prev, next *RevocationRegistryDelta) *RevocationRegistryDelta {
	if prev == nil {
		return next
	}

	if next == nil {
		return prev
	}

	return &RevocationRegistryDelta{
		Accum:   next.Accum,
		Issued:  unionMinus(prev.Issued, next.Issued, next.Revoked),
		Revoked: unionMinus(prev.Revoked, next.Revoked, next.Issued),
	}
}

// unionMinus returns (a ∪ b) \ c, sorted.
func unionMinus(a, b, c []uint32) []uint32 {
	set := NewIDSet(a...)

	for _, id := range b {
		set.Insert(id)
	}

	for _, id := range c {
		set.Remove(id)
	}

	ids := set.Sorted()
	if ids == nil {
		return []uint32{}
	}

	return ids
}
