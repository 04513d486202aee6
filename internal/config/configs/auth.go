package configs

// Auth configures how the front door resolves a caller session. In
// multi-tenant mode callers present a JWT signed with JWTSecret whose
// claims carry the tenant and the platform credential. In single-tenant
// mode StaticToken supplies a fixed platform credential and every request
// runs as StaticTenant.
type Auth struct {
	// JWTSecret is the HS256 signing secret for session tokens. Empty
	// disables JWT sessions.
	JWTSecret string `env:"JWT_SECRET" envDefault:""`
	// StaticToken is a fixed platform credential for single-tenant
	// deployments. Empty disables the static session.
	StaticToken string `env:"STATIC_TOKEN" envDefault:""`
	// StaticTenant scopes rows when StaticToken is in use.
	StaticTenant string `env:"STATIC_TENANT" envDefault:"default"`
}
