package validators

import "go.mongodb.org/mongo-driver/bson"

var SequenceCounterValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"seq"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"seq": bson.M{
				"bsonType": []string{"long", "int"},
				"minimum":  0,
			},
		},
	},
}

var TicketPriceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"category", "price"},
		"properties": bson.M{
			"category": bson.M{
				"enum": []string{"student", "public", "foreign", "other"},
			},
			"price": bson.M{
				"bsonType": []string{"long", "int"},
				"minimum":  0,
			},
		},
	},
}

var SalesRecapValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"date", "code", "total_sold"},
		"properties": bson.M{
			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},
			"code": bson.M{
				"bsonType": "string",
			},
			"total_sold": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},
		},
	},
}
