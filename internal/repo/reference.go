// Package repo resolves repository references to pinned commits and keeps a
// content-addressed cache of shallow clones at those commits.
package repo

import (
	"fmt"
	"regexp"
)

// DefaultRef is used when a reference names no tag.
const DefaultRef = "HEAD"

var fullHash = regexp.MustCompile(`^[a-f0-9]{40}$`)

// Reference names a repository and, optionally, the tag or commit to use.
type Reference struct {
	URL string
	// Tag is any ref understood by git ls-remote. Empty means HEAD.
	Tag string
	// Hash pins an explicit commit and bypasses ref lookup entirely.
	Hash string
}

// Ref returns the tag, or HEAD when none is set.
func (r Reference) Ref() string {
	if r.Tag == "" {
		return DefaultRef
	}
	return r.Tag
}

// CacheKey is the identity of the reference in the hash cache.
func (r Reference) CacheKey() string {
	return fmt.Sprintf("%s on %s", r.Ref(), r.URL)
}

// IsFullHash reports whether s is a full 40 character lowercase hex hash.
func IsFullHash(s string) bool {
	return fullHash.MatchString(s)
}
