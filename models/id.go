package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-character hex document identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a well-formed document identifier.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}

func ensureID(id *string) {
	if *id == "" {
		*id = NewID()
	}
}
