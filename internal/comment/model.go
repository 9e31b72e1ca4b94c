package comment

import "time"

// Comment is feedback left on an item by someone who has rented it.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}
