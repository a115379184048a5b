package analysis

import (
	"sort"
	"strings"
)

// stringSet is the shared backing type for CidrSet and AttachmentIndex.
// It is built once and never mutated afterwards.
type stringSet map[string]struct{}

// newStringSet unions every group into one set. Entries are trimmed of
// surrounding whitespace; empty entries are dropped.
func newStringSet(groups ...[]string) stringSet {
	s := make(stringSet)
	for _, g := range groups {
		for _, v := range g {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			s[v] = struct{}{}
		}
	}
	return s
}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s stringSet) equal(o stringSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if !o.has(v) {
			return false
		}
	}
	return true
}

// CidrSet is the whitelist: CIDR strings considered internal/safe.
// Membership is exact string equality. 10.0.1.0/24 is not a member of a set
// holding only 10.0.0.0/16.
type CidrSet struct {
	entries stringSet
}

// NewCidrSet returns the union of all groups.
func NewCidrSet(groups ...[]string) CidrSet {
	return CidrSet{entries: newStringSet(groups...)}
}

// Contains reports whether cidr appears verbatim in the set.
func (c CidrSet) Contains(cidr string) bool { return c.entries.has(cidr) }

// Len returns the number of distinct entries.
func (c CidrSet) Len() int { return len(c.entries) }

// Sorted returns the entries in lexical order.
func (c CidrSet) Sorted() []string { return c.entries.sorted() }

// Equal reports set equality.
func (c CidrSet) Equal(o CidrSet) bool { return c.entries.equal(o.entries) }

// AttachmentIndex holds the ids and names of every security group referenced
// by a live resource. Ids and names share one namespace because the resource
// listings are inconsistent about which identifier they expose.
type AttachmentIndex struct {
	entries stringSet
}

// NewAttachmentIndex returns the union of all groups.
func NewAttachmentIndex(groups ...[]string) AttachmentIndex {
	return AttachmentIndex{entries: newStringSet(groups...)}
}

// Contains reports whether id (a group id or name) is referenced.
func (a AttachmentIndex) Contains(id string) bool { return a.entries.has(id) }

// Len returns the number of distinct identifiers.
func (a AttachmentIndex) Len() int { return len(a.entries) }

// Sorted returns the identifiers in lexical order.
func (a AttachmentIndex) Sorted() []string { return a.entries.sorted() }

// Equal reports set equality.
func (a AttachmentIndex) Equal(o AttachmentIndex) bool { return a.entries.equal(o.entries) }
