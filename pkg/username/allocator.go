package username

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

const (
	maxLength = 30
	maxProbes = 50
)

// ExistsFunc reports whether a username is already taken.
type ExistsFunc func(ctx context.Context, name string) (bool, error)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^a-z0-9._-]`)
	separatorRun  = regexp.MustCompile(`[._-]{2,}`)
)

// Normalize reduces a raw seed to the username charset: lowercase, whitespace
// runs become ".", anything outside [a-z0-9._-] is stripped, runs of two or
// more separators collapse to a single "." (a lone "_" or "-" survives),
// leading and trailing separators are trimmed and the result is capped at 30
// characters. May return an empty string.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = whitespaceRun.ReplaceAllString(s, ".")
	s = disallowed.ReplaceAllString(s, "")
	s = separatorRun.ReplaceAllString(s, ".")
	s = strings.Trim(s, "._-")
	if len(s) > maxLength {
		s = strings.Trim(s[:maxLength], "._-")
	}
	return s
}

// Allocate picks the first seed that normalizes to something non-empty and
// probes for a free name, appending _1, _2, ... on collisions. When every
// seed is blank, or the probe budget runs out, a random user########
// fallback is synthesized.
func Allocate(ctx context.Context, seeds []string, exists ExistsFunc) (string, error) {
	var base string
	for _, seed := range seeds {
		if base = Normalize(seed); base != "" {
			break
		}
	}
	if base == "" {
		base = randomName()
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		if i > maxProbes {
			// Pathological hot seed; stop scanning suffixes and fall back
			// to a random name that is free with overwhelming probability.
			base = randomName()
			candidate = base
			continue
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

func randomName() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "user" + hex.EncodeToString(buf)
}
