package model

import "time"

// SlotLock is an advisory lock document serializing the conflict check and
// the subsequent insert for one room on one calendar day. The _id encodes
// the room/day pair, so a duplicate-key error on insert means another
// request holds the slot. ExpiresAt backs a TTL index so crashed holders
// cannot wedge a room.
type SlotLock struct {
	ID        string    `json:"id" bson:"_id"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
