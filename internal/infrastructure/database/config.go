package database

type Config struct {
	URI               string
	DBName            string `yaml:"db_name"`
	ConnectionTimeout int64  `yaml:"connection_timeout_in_ms"`
	QueryTimeout      int64  `yaml:"query_timeout_in_ms"`
	// how long an expired record is kept for the payload sweeper before
	// the TTL index drops it
	ExpiredRetention int64 `yaml:"expired_retention_in_s"`
}
