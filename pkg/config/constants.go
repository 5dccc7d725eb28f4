package config

// EnvPrefix is the envconfig prefix shared by every variable.
const EnvPrefix = "sca"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, errors).
const (
	EnvAppEnv     = "SCA_APP_ENV"
	EnvPort       = "SCA_APP_PORT"
	EnvDBDSN      = "SCA_DB_DSN"
	EnvDBHost     = "SCA_DB_HOST"
	EnvDBUser     = "SCA_DB_USER"
	EnvDBName     = "SCA_DB_NAME"
	EnvRedisURL   = "SCA_REDIS_URL"
	EnvJWTSecret  = "SCA_JWT_SECRET"
	EnvJWTIssuer  = "SCA_JWT_ISSUER"
	EnvJWTExpMins = "SCA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
