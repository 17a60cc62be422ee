package repo

import (
	"encoding/base64"
	"regexp"

	"github.com/zeebo/blake3"
)

// ShortHashLen is how much of a commit hash names a pinned directory. It is
// well above what is needed for uniqueness while keeping paths short.
const ShortHashLen = 20

var unsafeURLChars = regexp.MustCompile(`[^a-zA-Z0-9_+\-()]+`)

// CacheDirName returns the directory name for a repository URL: the
// sanitized URL, which is only there for humans, followed by a hash of the
// exact URL, which is what tells repositories apart. URLs are therefore
// case-sensitive.
func CacheDirName(url string) string {
	sum := blake3.Sum256([]byte(url))
	return unsafeURLChars.ReplaceAllString(url, "_") + "-" + base64.RawURLEncoding.EncodeToString(sum[:8])
}

// ShortHash truncates a commit hash to ShortHashLen characters.
func ShortHash(hash string) string {
	if len(hash) > ShortHashLen {
		return hash[:ShortHashLen]
	}
	return hash
}
