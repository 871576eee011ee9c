package plans

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Resource is a countable thing a plan caps.
type Resource string

const (
	ResourceUsers         Resource = "users"
	ResourceDeals         Resource = "deals"
	ResourceDealsPerMonth Resource = "deals_per_month"
	ResourceContacts      Resource = "contacts"
)

// Limit is either a positive cap or unlimited. The zero value is a cap of 0,
// which Validate rejects.
type Limit struct {
	max       int64
	unlimited bool
}

// Cap returns a limit of n.
func Cap(n int64) Limit { return Limit{max: n} }

// Unlimited returns a limit with no cap.
func Unlimited() Limit { return Limit{unlimited: true} }

func (l Limit) IsUnlimited() bool { return l.unlimited }

// Value returns the cap. ok is false when the limit is unlimited.
func (l Limit) Value() (n int64, ok bool) {
	if l.unlimited {
		return 0, false
	}
	return l.max, true
}

// Allows reports whether count is within the limit.
func (l Limit) Allows(count int64) bool {
	return l.unlimited || count <= l.max
}

// AtLeast reports whether l is at least as generous as other.
func (l Limit) AtLeast(other Limit) bool {
	if l.unlimited {
		return true
	}
	if other.unlimited {
		return false
	}
	return l.max >= other.max
}

func (l Limit) String() string {
	if l.unlimited {
		return "unlimited"
	}
	return strconv.FormatInt(l.max, 10)
}

// MarshalJSON encodes unlimited as null.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.unlimited {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(l.max, 10)), nil
}

func (l *Limit) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*l = Unlimited()
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("limit must be an integer or null: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("limit must be positive or null, got %d", n)
	}
	*l = Cap(n)
	return nil
}

// Limits maps each capped resource to its limit.
type Limits map[Resource]Limit

func (ls Limits) equal(other Limits) bool {
	if len(ls) != len(other) {
		return false
	}
	for r, l := range ls {
		o, ok := other[r]
		if !ok || o != l {
			return false
		}
	}
	return true
}
