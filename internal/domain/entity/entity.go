package entity

import "time"

type StringAnnotation struct {
	Key   string `bson:"key"   json:"key"`
	Value string `bson:"value" json:"value"`
}

type NumericAnnotation struct {
	Key   string `bson:"key"   json:"key"`
	Value uint64 `bson:"value" json:"value"`
}

// Create is a single entity write. BTL is the lease length in blocks.
type Create struct {
	Data               []byte
	BTL                uint64
	StringAnnotations  []StringAnnotation
	NumericAnnotations []NumericAnnotation
}

type CreateReceipt struct {
	EntityKey string
	ExpiresAt time.Time
}

type QueryResult struct {
	EntityKey    string
	StorageValue []byte
}

// Metadata is everything the store knows about an entity except its payload.
type Metadata struct {
	ExpiresAt          time.Time
	StringAnnotations  []StringAnnotation
	NumericAnnotations []NumericAnnotation
}

// String returns the first string annotation stored under key.
func (m *Metadata) String(key string) (string, bool) {
	for _, a := range m.StringAnnotations {
		if a.Key == key {
			return a.Value, true
		}
	}

	return "", false
}

// Strings returns every string annotation stored under key, in write order.
func (m *Metadata) Strings(key string) []string {
	var values []string
	for _, a := range m.StringAnnotations {
		if a.Key == key {
			values = append(values, a.Value)
		}
	}

	return values
}

// Numeric returns the first numeric annotation stored under key.
func (m *Metadata) Numeric(key string) (uint64, bool) {
	for _, a := range m.NumericAnnotations {
		if a.Key == key {
			return a.Value, true
		}
	}

	return 0, false
}

func (m *Metadata) HasString(key, value string) bool {
	for _, a := range m.StringAnnotations {
		if a.Key == key && a.Value == value {
			return true
		}
	}

	return false
}

func (m *Metadata) HasNumeric(key string, value uint64) bool {
	for _, a := range m.NumericAnnotations {
		if a.Key == key && a.Value == value {
			return true
		}
	}

	return false
}
