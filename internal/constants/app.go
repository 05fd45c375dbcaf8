package constants

// Application Information
const (
	AppName    = "cliptube-backend"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8000"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix  = "cliptube:"
	CacheKeyChannel = CacheKeyPrefix + "channel:"
)

// Auth Cookie Names
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
)
