package repositories

import "go.mongodb.org/mongo-driver/bson/primitive"

// objectIDOf returns the id the driver generated on insert, or fallback when
// the document carried its own.
func objectIDOf(inserted interface{}, fallback primitive.ObjectID) primitive.ObjectID {
	switch id := inserted.(type) {
	case primitive.ObjectID:
		return id
	case *primitive.ObjectID:
		if id != nil {
			return *id
		}
	}
	return fallback
}
