package validators

import "go.mongodb.org/mongo-driver/bson"

var StockBatchValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"category",
			"total_count",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"category": bson.M{
				"enum": []string{"student", "public", "foreign", "other"},
			},

			"total_count": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var TicketCodeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"code",
			"category",
			"batch_id",
			"status",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"code": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 10,
			},

			"category": bson.M{
				"enum": []string{"student", "public", "foreign", "other"},
			},

			"batch_id": bson.M{
				"bsonType": "string",
			},

			"status": bson.M{
				"enum": []string{"available", "sold", "expired"},
			},
		},
	},
}
