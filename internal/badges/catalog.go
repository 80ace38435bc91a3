// Package badges defines the badge tier catalog and point values for
// forum actions. The catalog is an immutable value constructed once and
// injected into the services that need it, so tests can substitute
// alternate tiers without touching package state.
package badges

import (
	"github.com/campushub/forum-api/internal/models"
)

// Badge tier names, lowest to highest.
const (
	Newbie      = "Forum Newbie"
	Active      = "Forum Active"
	Expert      = "Forum Expert"
	Contributor = "Forum Contributor"
)

// UnlimitedQuota is the daily post limit used for tiers without a real
// cap. High enough that no human posting pattern reaches it.
const UnlimitedQuota = 999

// Tier describes one badge level: an inclusive point range, the daily
// post quota it grants and cosmetic fields the client renders.
type Tier struct {
	Name           string `json:"name"`
	MinPoints      int    `json:"min_points"`
	MaxPoints      int    `json:"max_points"` // -1 means unbounded
	DailyPostQuota int    `json:"daily_post_quota"`
	Icon           string `json:"icon"`
	Color          string `json:"color"`
}

// Contains reports whether the given point total falls in this tier.
func (t Tier) Contains(points int) bool {
	if points < t.MinPoints {
		return false
	}
	return t.MaxPoints < 0 || points <= t.MaxPoints
}

// Catalog is an ordered list of tiers partitioning all non-negative
// point totals. Order is lowest tier first.
type Catalog struct {
	tiers  []Tier
	points map[string]int
}

// NewCatalog builds a catalog from an ordered tier list and an
// action -> point-value table.
func NewCatalog(tiers []Tier, points map[string]int) Catalog {
	ts := make([]Tier, len(tiers))
	copy(ts, tiers)
	ps := make(map[string]int, len(points))
	for k, v := range points {
		ps[k] = v
	}
	return Catalog{tiers: ts, points: ps}
}

// Default returns the production catalog: the forum's fixed badge
// thresholds and per-action point values.
func Default() Catalog {
	return NewCatalog(
		[]Tier{
			{Name: Newbie, MinPoints: 0, MaxPoints: 24, DailyPostQuota: 20, Icon: "🌱", Color: "bg-gray-100 text-gray-700"},
			{Name: Active, MinPoints: 25, MaxPoints: 99, DailyPostQuota: 50, Icon: "⚡", Color: "bg-blue-100 text-blue-700"},
			{Name: Expert, MinPoints: 100, MaxPoints: 199, DailyPostQuota: UnlimitedQuota, Icon: "🎓", Color: "bg-purple-100 text-purple-700"},
			{Name: Contributor, MinPoints: 200, MaxPoints: -1, DailyPostQuota: UnlimitedQuota, Icon: "👑", Color: "bg-yellow-100 text-yellow-700"},
		},
		map[string]int{
			models.ActionCreatePost:  5,
			models.ActionCreateReply: 2,
			models.ActionReact:       1,
			models.ActionBookmark:    3,
			models.ActionFollowUser:  8,
		},
	)
}

// Derive returns the tier matching the given point total. Ranges are
// disjoint so at most one tier matches; a negative total (which the
// ledger never produces) falls back to the lowest tier.
func (c Catalog) Derive(points int) Tier {
	for _, t := range c.tiers {
		if t.Contains(points) {
			return t
		}
	}
	return c.tiers[0]
}

// DeriveName returns just the badge name for a point total.
func (c Catalog) DeriveName(points int) string {
	return c.Derive(points).Name
}

// TierByName looks up a tier by badge name. Unknown names fall back to
// the lowest tier.
func (c Catalog) TierByName(name string) Tier {
	for _, t := range c.tiers {
		if t.Name == name {
			return t
		}
	}
	return c.tiers[0]
}

// QuotaFor returns the daily post quota granted by a badge name.
func (c Catalog) QuotaFor(badge string) int {
	return c.TierByName(badge).DailyPostQuota
}

// Next returns the tier above the one holding the given point total,
// and false when the top tier is already reached. Used for
// progress-to-next-badge messaging.
func (c Catalog) Next(points int) (Tier, bool) {
	current := c.Derive(points)
	for i, t := range c.tiers {
		if t.Name == current.Name && i+1 < len(c.tiers) {
			return c.tiers[i+1], true
		}
	}
	return Tier{}, false
}

// Tiers returns a copy of the ordered tier list for read-only display.
func (c Catalog) Tiers() []Tier {
	out := make([]Tier, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// ValidName reports whether the name matches a catalog tier. Used by
// the admin badge-override endpoint to reject typos.
func (c Catalog) ValidName(name string) bool {
	for _, t := range c.tiers {
		if t.Name == name {
			return true
		}
	}
	return false
}

// PointsFor returns the point value awarded for an action, and false
// for actions the ledger does not know.
func (c Catalog) PointsFor(action string) (int, bool) {
	v, ok := c.points[action]
	return v, ok
}
