package entity

// Category owns many posts (1:N). Assumed pre-seeded; there is no
// category management endpoint.
type Category struct {
	ID   int64
	Name string
}

// Tag is many-to-many with Post via the post_tags join table.
type Tag struct {
	ID   int64
	Name string
}
