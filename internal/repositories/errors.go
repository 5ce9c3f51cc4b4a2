package repositories

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key (uid, email) is already taken.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidID is returned when an id is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid id")
)

func parseObjectID(kind, id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s %q: %w", kind, id, ErrInvalidID)
	}
	return objID, nil
}
