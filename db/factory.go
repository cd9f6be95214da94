package db

import "soundtrace/utils"

// NewDBClient builds the configured FingerprintStore backend.
// DB_BACKEND selects "mongo" (default) or "sqlite"; SQLITE_PATH
// controls the sqlite file when that backend is chosen.
func NewDBClient() (FingerprintStore, error) {
	switch utils.GetEnv("DB_BACKEND", "mongo") {
	case "sqlite":
		return NewSQLiteClient(utils.GetEnv("SQLITE_PATH", "soundtrace.db"))
	default:
		return NewMongoClient(utils.GetEnv("MONGO_URI", ""))
	}
}
