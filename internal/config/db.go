package config

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, file path for sqlite
	GormEngine string // mysql, postgres or sqlite
}

// Redis holds the redis connection used by the redis token driver.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}
