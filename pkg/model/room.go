package model

import "time"

type Room struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomNumber string    `json:"room_number" bson:"room_number" validate:"required,min=1,max=20"`
	RoomName   string    `json:"room_name" bson:"room_name" validate:"required,min=2,max=100"`
	Capacity   int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=1000"`
	Facilities []string  `json:"facilities" bson:"facilities" validate:"omitempty,dive,min=1,max=50"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type RoomUpdate struct {
	RoomNumber string    `json:"room_number,omitempty" validate:"omitempty,min=1,max=20"`
	RoomName   string    `json:"room_name,omitempty" validate:"omitempty,min=2,max=100"`
	Capacity   *int      `json:"capacity,omitempty" validate:"omitempty,min=1,max=1000"`
	Facilities *[]string `json:"facilities,omitempty" validate:"omitempty,dive,min=1,max=50"`
}
