package entity

// PayloadLocation points at the object holding an entity's raw bytes.
type PayloadLocation struct {
	Bucket     string `bson:"bucket"      json:"bucket"`
	ObjectName string `bson:"object_name" json:"object_name"`
	Size       int64  `bson:"size"        json:"size"`
}
