package plans

import "strings"

// Key identifies a plan. Keys are stable and never renamed.
type Key string

// Plan keys (single source of truth)
const (
	KeyFree       Key = "free"
	KeyBasic      Key = "basic"
	KeyPro        Key = "pro"
	KeyEnterprise Key = "enterprise"
)

// tierOrder is the escalation order used for listing and limit checks.
var tierOrder = [...]Key{KeyFree, KeyBasic, KeyPro, KeyEnterprise}

// TierOrder returns the plan keys from least to most generous.
func TierOrder() []Key {
	out := make([]Key, len(tierOrder))
	copy(out, tierOrder[:])
	return out
}

// ParseKey normalizes user input into a Key. ok is false for anything
// that is not one of the four known plans.
func ParseKey(s string) (Key, bool) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if Rank(k) < 0 {
		return "", false
	}
	return k, true
}

// Rank returns the position of k in the tier order, or -1 if k is unknown.
func Rank(k Key) int {
	for i, t := range tierOrder {
		if t == k {
			return i
		}
	}
	return -1
}

// Compare orders two keys by tier: negative if a is the lower tier,
// zero if equal, positive if a is higher. Unknown keys sort first.
func Compare(a, b Key) int {
	return Rank(a) - Rank(b)
}

// PlanTier returns the key of p, or the empty key for nil.
func PlanTier(p *Plan) Key {
	if p == nil {
		return ""
	}
	return p.Key
}
