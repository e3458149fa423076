package entity

import "time"

// Post belongs to exactly one Category and carries a materialized tag set.
// Tags are loaded by the repository, never lazily.
type Post struct {
	ID         int64
	Title      string
	Content    string
	CreatedAt  time.Time
	CategoryID int64
	Tags       []Tag
}

// TagIDs returns the ids of the post's tags in load order.
func (p *Post) TagIDs() []int64 {
	ids := make([]int64, 0, len(p.Tags))
	for _, t := range p.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}
