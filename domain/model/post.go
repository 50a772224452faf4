package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Post struct {
	ObjectID    bson.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Description string        `json:"description"   bson:"description"`
	Image       string        `json:"image"         bson:"image"`
	Creator     string        `json:"creator"       bson:"creator"`
	Avatar      string        `json:"avatar"        bson:"avatar"`
	CreatedAt   time.Time     `json:"createdAt"     bson:"createdAt"`
}
