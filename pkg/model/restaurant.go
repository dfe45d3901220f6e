package model

import "time"

type Restaurant struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Address      string    `json:"address" bson:"address" validate:"required,min=2,max=250"`
	Contact      string    `json:"contact" bson:"contact" validate:"required,e164"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	CurrencyCode string    `json:"currency_code" bson:"currency_code" validate:"required,iso4217"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}
