package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all process-wide runtime configuration. Values are read once
// at startup and treated as immutable for the process lifetime; components
// receive the struct (or individual fields) explicitly rather than reading
// the environment themselves.
type Config struct {
	Env         string // application environment ("dev" enables verbose error rendering)
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // secret used to sign access tokens
	TokenTTLHrs int    // access token time-to-live in hours (fixed window, no refresh)
	BcryptCost  int    // bcrypt cost for password hashing
}

// Load reads configuration from environment variables. Required variables
// are enforced by must() and missing values abort startup with a fatal log.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTLHrs: intOr("TOKEN_TTL_HOURS", 24),
		BcryptCost:  intOr("BCRYPT_COST", 10),
	}
}

// Verbose reports whether error responses may include diagnostic detail.
// Never the default: only the explicit "dev" environment opts in.
func (c Config) Verbose() bool { return c.Env == "dev" }

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr parses an optional integer variable, falling back to def when unset.
// A present but malformed value is a configuration mistake and aborts.
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
