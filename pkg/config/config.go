package config

import "time"

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	OTP      OTPConfig
	Mail     MailConfig
	Storage  StorageConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port        string
	CORSOrigins string
	BodyLimit   int
}

// DatabaseConfig configures the Postgres connection pool.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the Redis client.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// JWTConfig holds the symmetric signing material and token lifetime.
// The key is injected here once at startup and never rotated at runtime.
type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
	Issuer   string
}

// OTPConfig configures one-time code issuance.
type OTPConfig struct {
	CodeLength  int
	TTL         time.Duration
	VerifiedTTL time.Duration
}

// MailConfig configures outbound email delivery.
type MailConfig struct {
	Provider    string // "ses" or "console"
	FromAddress string
	AWSRegion   string
}

// StorageConfig configures identity-document storage.
type StorageConfig struct {
	Mode      string // "local" or "s3"
	LocalDir  string
	AWSRegion string
	AWSBucket string
}

// Load reads the full configuration from the environment.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			BodyLimit:   getEnvInt("BODY_LIMIT_MB", 10) * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "tambo"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "tambo"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", false),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			TokenTTL: getEnvDuration("JWT_TOKEN_TTL", 8*time.Hour),
			Issuer:   getEnv("JWT_ISSUER", "tambo"),
		},
		OTP: OTPConfig{
			CodeLength:  getEnvInt("OTP_CODE_LENGTH", 6),
			TTL:         getEnvDuration("OTP_TTL", 5*time.Minute),
			VerifiedTTL: getEnvDuration("OTP_VERIFIED_TTL", 30*time.Minute),
		},
		Mail: MailConfig{
			Provider:    getEnv("MAIL_PROVIDER", "console"),
			FromAddress: getEnv("MAIL_FROM", "no-reply@tambo.market"),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
		},
		Storage: StorageConfig{
			Mode:      getEnv("STORAGE_MODE", "local"),
			LocalDir:  getEnv("UPLOAD_DIR", "./uploads"),
			AWSRegion: getEnv("AWS_REGION", "us-east-1"),
			AWSBucket: getEnv("AWS_BUCKET", "tambo-documents"),
		},
	}
}

// Address returns the host:port pair for the Redis client.
func (r RedisConfig) Address() string {
	return r.Host + ":" + itoa(r.Port)
}
