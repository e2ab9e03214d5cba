package config

// EnvPrefix is the envconfig prefix shared by every atelier binary.
const EnvPrefix = "atelier"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "ATELIER_DB_DSN"
	EnvDBHost = "ATELIER_DB_HOST"
	EnvDBUser = "ATELIER_DB_USER"
	EnvDBName = "ATELIER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
