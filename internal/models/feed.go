package models

// FeedEntry is one row of the assembled feed: the tweet, its author, and the
// viewer's like-state. Replies additionally carry the parent tweet with its
// own author and like-state.
type FeedEntry struct {
	Tweet   Tweet       `json:"tweet"`
	Author  UserCompact `json:"author"`
	IsLiked bool        `json:"is_liked"`
	Parent  *FeedParent `json:"parent,omitempty"`
}

// FeedParent is the parent-tweet half of a reply feed entry.
type FeedParent struct {
	Tweet   Tweet       `json:"tweet"`
	Author  UserCompact `json:"author"`
	IsLiked bool        `json:"is_liked"`
}

// Profile aggregates a user's public page: the account, its tweets, the
// follow counts, and whether the viewer follows them.
type Profile struct {
	User           User    `json:"user"`
	Tweets         []Tweet `json:"tweets"`
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
	IsFollowing    bool    `json:"is_following"`
}
