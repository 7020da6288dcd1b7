package model

// SequenceCounter is a named, atomically incremented integer. Counters are
// created implicitly on first increment and never deleted.
type SequenceCounter struct {
	Name string `json:"name" bson:"_id"`
	Seq  int64  `json:"seq" bson:"seq"`
}
