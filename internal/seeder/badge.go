package seeder

// Badge is the contribution tier shown next to a user. It is a pure
// presentation function of post_count and is never persisted.
type Badge struct {
	Tier  string
	Title string
}

func BadgeFor(postCount int) Badge {
	switch {
	case postCount >= 50:
		return Badge{Tier: "gold", Title: "Gold Contributor"}
	case postCount >= 25:
		return Badge{Tier: "silver", Title: "Silver Contributor"}
	case postCount >= 10:
		return Badge{Tier: "bronze", Title: "Bronze Contributor"}
	case postCount >= 5:
		return Badge{Tier: "active", Title: "Active Member"}
	default:
		return Badge{Tier: "new", Title: "New Member"}
	}
}
