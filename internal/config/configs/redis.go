package configs

// Redis holds configuration for the optional Redis backend.
type Redis struct {
	// Addr is the host:port of the Redis server.
	Addr string `env:"ADDRESS" envDefault:"localhost:6379"`
	// Password is the optional AUTH password.
	Password string `env:"PASSWORD" envDefault:""`
	// DB selects the logical Redis database.
	DB int `env:"DB" envDefault:"0"`
}
