package seeder

import "testing"

func TestBadgeFor(t *testing.T) {
	cases := []struct {
		postCount int
		tier      string
	}{
		{0, "new"},
		{4, "new"},
		{5, "active"},
		{9, "active"},
		{10, "bronze"},
		{24, "bronze"},
		{25, "silver"},
		{49, "silver"},
		{50, "gold"},
		{500, "gold"},
	}

	for _, tc := range cases {
		badge := BadgeFor(tc.postCount)
		if badge.Tier != tc.tier {
			t.Errorf("BadgeFor(%d) = %s, expected %s", tc.postCount, badge.Tier, tc.tier)
		}
		if badge.Title == "" {
			t.Errorf("BadgeFor(%d) has empty title", tc.postCount)
		}
	}
}
