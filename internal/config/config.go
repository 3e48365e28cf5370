package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Upload policy lives here once, shared by every
// resource, instead of being re-declared per route.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	DBMaxConns   int    // upper bound on open database connections
	JWTSecret    string // secret used to sign session tokens
	TokenTTLHour int    // session token time-to-live in hours
	BcryptCost   int    // bcrypt cost for password hashing
	Upload       UploadPolicy
}

// UploadPolicy describes how attachment uploads are accepted and served.
// One instance is shared by every resource that owns an image.
type UploadPolicy struct {
	Dir       string // on-disk content directory, created lazily
	URLPrefix string // public prefix the directory is served under
	MaxBytes  int64  // upload size ceiling in bytes
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		DBMaxConns:   intOr("DB_MAX_CONNS", 25),
		JWTSecret:    must("JWT_SECRET"),
		TokenTTLHour: intOr("TOKEN_TTL_HOUR", 24),
		BcryptCost:   intOr("BCRYPT_COST", 10),
		Upload: UploadPolicy{
			Dir:       stringOr("UPLOAD_DIR", "uploads"),
			URLPrefix: "/uploads",
			MaxBytes:  int64(intOr("UPLOAD_MAX_MB", 5)) << 20,
		},
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// stringOr returns the variable's value or a fallback when unset.
func stringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intOr parses the variable as an integer, falling back to def when unset.
// A set-but-malformed value is a fatal configuration error.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
