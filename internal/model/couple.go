package model

import "time"

// Couple is the two-user group that shares one set of weekly grocery lists.
// Memberships never change after creation.
type Couple struct {
	ID        int64     `json:"id"`
	User1ID   int64     `json:"user1_id"`
	User2ID   int64     `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}
