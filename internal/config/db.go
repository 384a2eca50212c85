package config

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
// URL wins over the single connection parts when set.
type DB struct {
	URL        string
	GormEngine string `validate:"oneof=mysql postgres sqlite"`
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string

	MaxIdleConns    int  `validate:"gte=0"`
	MaxOpenConns    int  `validate:"gte=0"`
	ConnMaxLifetime int  `validate:"gte=0"` // seconds, 0 = reuse forever
	PrePing         bool // ping on open to fail fast
	AutoMigrate     bool // apply the registered models' schema on start
}
