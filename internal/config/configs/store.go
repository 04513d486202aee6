package configs

// Store selects the durable backend for the cooldown ledger and the
// settings store. The choice is made once at startup, never per call.
type Store struct {
	// Backend is one of "postgres", "redis" or "none". With "none" the
	// system runs without cooldown tracking or persisted settings.
	Backend string `env:"BACKEND" envDefault:"postgres"`
}
