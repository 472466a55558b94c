package source

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	disallowedPathChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// SanitizeStem derives a file name stem from a display name or area label.
// Characters not allowed in paths are dropped and whitespace runs become "_".
// The mapping is lossy: distinct inputs can share a stem (see StemAllocator).
func SanitizeStem(name string) string {
	s := strings.TrimSpace(name)
	s = disallowedPathChars.ReplaceAllString(s, "")
	return whitespaceRun.ReplaceAllString(s, "_")
}

// FallbackStem replaces a name that sanitizes to nothing usable.
const FallbackStem = "candidato"

// reservedStems would collide with the index pages written next to profiles.
var reservedStems = map[string]bool{
	"index":         true,
	"index_general": true,
}

// StemAllocator hands out run-unique stems. The first owner of a stem keeps
// it; later collisions get "_2", "_3", ... appended. Empty or dot-only stems
// become FallbackStem, and index page names are never handed out as is.
type StemAllocator struct {
	used map[string]int
}

// NewStemAllocator creates an empty allocator.
func NewStemAllocator() *StemAllocator {
	return &StemAllocator{used: make(map[string]int)}
}

// Allocate returns a unique stem for name and whether it differs from
// SanitizeStem(name).
func (a *StemAllocator) Allocate(name string) (string, bool) {
	base := SanitizeStem(name)
	adjusted := false
	if strings.Trim(base, ".") == "" {
		base = FallbackStem
		adjusted = true
	}

	if _, taken := a.used[base]; !taken && !reservedStems[strings.ToLower(base)] {
		a.used[base] = 1
		return base, adjusted
	}

	n := a.used[base]
	if n == 0 {
		n = 1
	}
	for {
		n++
		candidate := base + "_" + strconv.Itoa(n)
		if _, taken := a.used[candidate]; !taken && !reservedStems[strings.ToLower(candidate)] {
			a.used[base] = n
			a.used[candidate] = 1
			return candidate, true
		}
	}
}
