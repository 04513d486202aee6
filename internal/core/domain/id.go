package domain

import "strings"

// NormalizeID canonicalizes a platform identifier. The ads platform is
// inconsistent about identifier shapes: the same campaign may be referenced
// as a bare numeric ID ("123") or as a URN-style compound string
// ("urn:li:sponsoredCampaign:123"). Both forms normalize to the trailing
// segment, so they produce the identical map key. Applied once at the API
// boundary; downstream code never re-normalizes.
func NormalizeID(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.LastIndexByte(raw, ':'); i >= 0 {
		return raw[i+1:]
	}
	return raw
}
