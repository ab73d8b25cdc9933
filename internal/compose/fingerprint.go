// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"hash/fnv"
	"io"
	"strings"
)

// Fingerprint is a stable hash of normalized text, used at two
// granularities: whole records for cross-source dedup and single
// sentences for intra-document dedup (R4.1).
type Fingerprint uint64

// fingerprintOf hashes whitespace-collapsed, case-folded text with FNV-64a.
func fingerprintOf(text string) Fingerprint {
	h := fnv.New64a()
	io.WriteString(h, normalizeText(text))
	return Fingerprint(h.Sum64())
}

// normalizeText collapses whitespace runs and case-folds so trivially
// reformatted copies of the same content fingerprint identically.
func normalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// fingerprintSet tracks consumed fingerprints for one assembly call. Sets
// are constructed fresh per request and torn down with it; sharing one
// across requests would silently suppress legitimate content for an
// unrelated subject later in the process lifetime.
type fingerprintSet map[Fingerprint]struct{}

// consume records text's fingerprint and reports whether it was new.
func (s fingerprintSet) consume(text string) bool {
	fp := fingerprintOf(text)
	if _, ok := s[fp]; ok {
		return false
	}
	s[fp] = struct{}{}
	return true
}
