package simpleblog

import (
	"context"
	"strconv"
	"strings"
)

// slugProbeLimit bounds the collision probe: suffixes 2..99 are tried before
// the resolver gives up and falls back to the unsuffixed base.
const slugProbeLimit = 100

// Slugify converts a title to a URL-safe slug: lowercase, alphanumeric runs
// joined by single hyphens, everything else dropped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// TakenFunc reports whether a candidate slug is already in use in the target
// namespace.
type TakenFunc func(ctx context.Context, slug string) (bool, error)

// ResolveSlug disambiguates base within a namespace: it accepts base if
// unused, otherwise probes base2, base3, ... base99 in order and accepts the
// first unused candidate. When every probe is taken it returns base again
// with exhausted=true; the caller logs the degraded fallback and the eventual
// write may still fail on the uniqueness constraint.
//
// The probe itself is pure over a snapshot of existing slugs; concurrent
// resolutions for the same title may pick the same suffix and collide at
// commit time. Callers retry on ErrSlugTaken.
func ResolveSlug(ctx context.Context, base string, taken TakenFunc) (slug string, exhausted bool, err error) {
	inUse, err := taken(ctx, base)
	if err != nil {
		return "", false, err
	}
	if !inUse {
		return base, false, nil
	}
	for i := 2; i < slugProbeLimit; i++ {
		candidate := base + strconv.Itoa(i)
		inUse, err := taken(ctx, candidate)
		if err != nil {
			return "", false, err
		}
		if !inUse {
			return candidate, false, nil
		}
	}
	return base, true, nil
}
