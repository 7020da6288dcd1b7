package validators

import "go.mongodb.org/mongo-driver/bson"

// ReservationValidator is shared by all three reservation collections; the
// variants differ only in how public_id is minted, not in document shape.
var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"public_id",
			"visitor_name",
			"visiting_date",
			"visiting_hour",
			"total_members",
			"total_amount",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"public_id": bson.M{
				"bsonType":  "string",
				"minLength": 7,
				"maxLength": 20,
			},

			"visitor_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"visiting_date": bson.M{
				"bsonType": "date",
			},

			"visiting_hour": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"student_count": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"public_count": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"foreign_count": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"other_count": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"total_members": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"total_amount": bson.M{
				"bsonType": []string{"long", "int"},
				"minimum":  0,
			},

			"down_payment": bson.M{
				"bsonType": []string{"long", "int"},
				"minimum":  0,
			},

			"change": bson.M{
				"bsonType": []string{"long", "int"},
				"minimum":  0,
			},

			"status": bson.M{
				"enum": []string{"paid", "dp", "unpaid"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
