package configs

import "time"

// Ads configures the external ads platform client.
type Ads struct {
	// BaseURL is the API root of the ads platform.
	BaseURL string `env:"BASE_URL" envDefault:"https://api.linkedin.com/rest"`
	// Timeout bounds every individual outbound call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
	// DefaultCurrency tags bid mutations when the campaign read yields no
	// currency code.
	DefaultCurrency string `env:"DEFAULT_CURRENCY" envDefault:"USD"`
}
