package config

// Supported gorm engines.
const (
	// EngineMySQL selects the MySQL driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the PostgreSQL driver.
	EnginePostgres = "postgres"
	// EngineSQLite selects the embedded SQLite driver (dev and test use).
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	File       string // database file path, sqlite engine only
	GormEngine string // one of EngineMySQL, EnginePostgres, EngineSQLite
}
