package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// Record id prefixes. Tasks use a shorter suffix since people type them on the command line.
const (
	prefixUser     = "usr"
	prefixClient   = "cli"
	prefixProject  = "proj"
	prefixTask     = "task"
	prefixComment  = "cmt"
	prefixBriefing = "brf"
)

// newRandomID returns prefix-<suffix> where suffix is lowercase base32 without padding.
// Tasks get 6 chars (30 bits), everything else 8 chars (40 bits).
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	if prefix == prefixTask {
		suffix = suffix[:6]
	}
	return prefix + "-" + suffix, nil
}

// HasIDPrefix reports whether s looks like an id minted with the given prefix.
func HasIDPrefix(s, prefix string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, prefix+"-") && len(s) > len(prefix)+1
}

// LooksLikeTaskID is used by the CLI's direct-lookup shortcut.
func LooksLikeTaskID(s string) bool { return HasIDPrefix(s, prefixTask) }
