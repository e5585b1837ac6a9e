// Package recordid builds lookup filters for records that may have been
// created under either addressing scheme: the canonical ObjectID _id, or
// a legacy string id field written by earlier deployments. New records
// always get an ObjectID; the dual filter is a compatibility shim for
// documents that predate that.
package recordid

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter matches a record by ObjectID hex or by legacy string id. When
// the id does not parse as an ObjectID only the legacy field is tried.
func Filter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$or": []bson.M{{"_id": oid}, {"id": id}}}
	}
	return bson.M{"id": id}
}
