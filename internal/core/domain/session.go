package domain

// DefaultTenant scopes all rows in single-tenant deployments, where no
// caller identity is resolved.
const DefaultTenant = "default"

// Credential is the opaque per-caller token presented to the ads platform.
// It is produced by the surrounding auth flow and never inspected here.
type Credential string

// Session identifies a caller for the duration of one request: the tenant
// under which settings and cooldown rows are scoped, and the platform
// credential used for every outbound call made on the caller's behalf.
type Session struct {
	Tenant     string
	Credential Credential
}
