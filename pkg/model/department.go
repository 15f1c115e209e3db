package model

import "time"

type Department struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Code      string    `json:"code" bson:"code" validate:"required,min=1,max=20"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
