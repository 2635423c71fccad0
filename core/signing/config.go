package signing

// Config holds configuration for the signing capability.
type Config struct {
	// Mode selects the signer (none, local, transit).
	Mode string `mapstructure:"mode" default:"none"`
	// KeyFile is the PEM encoded EC private key used in local mode.
	KeyFile string `mapstructure:"key_file" default:""`
	// TransitAddress is the base URL of the transit API.
	TransitAddress string `mapstructure:"transit_address" default:"http://localhost:8200"`
	// TransitToken authenticates against the transit API.
	TransitToken string `mapstructure:"transit_token" default:""`
	// TransitMount is the mount path of the transit engine.
	TransitMount string `mapstructure:"transit_mount" default:"transit"`
	// TransitKey is the name of the signing key.
	TransitKey string `mapstructure:"transit_key" default:"businessrule"`
	// TimeoutSeconds bounds every transit request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

const (
	ModeNone    = "none"
	ModeLocal   = "local"
	ModeTransit = "transit"
)
