package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process configuration. It is built once at startup
// and passed to the components that need it; nothing reads the
// environment after Load returns.
type Config struct {
	LDAPHost   string
	LDAPBaseDN string

	PostgresHost     string
	PostgresPort     string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string

	JWTSecret string
	JWTTTL    time.Duration

	Port string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file if one exists in the working directory. It returns a single
// error naming every missing required variable.
func Load() (Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := Config{
		LDAPHost:         os.Getenv("LDAP_HOST"),
		LDAPBaseDN:       os.Getenv("LDAP_BASE_DN"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     os.Getenv("POSTGRES_PORT"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		JWTSecret:        os.Getenv("JWT_SECRET_KEY"),
		JWTTTL:           10 * time.Minute,
		Port:             os.Getenv("PORT"),
	}

	var missing []string
	for _, v := range []struct {
		name, value string
	}{
		{"LDAP_HOST", cfg.LDAPHost},
		{"LDAP_BASE_DN", cfg.LDAPBaseDN},
		{"POSTGRES_HOST", cfg.PostgresHost},
		{"POSTGRES_DB", cfg.PostgresDB},
		{"POSTGRES_USER", cfg.PostgresUser},
		{"POSTGRES_PASSWORD", cfg.PostgresPassword},
		{"JWT_SECRET_KEY", cfg.JWTSecret},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if cfg.PostgresPort == "" {
		cfg.PostgresPort = "5432"
	}
	if cfg.Port == "" {
		cfg.Port = "5001"
	}
	if raw := os.Getenv("JWT_TTL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("invalid JWT_TTL_MINUTES %q", raw)
		}
		cfg.JWTTTL = time.Duration(minutes) * time.Minute
	}

	return cfg, nil
}

// DSN renders the Postgres connection URL. Credentials are escaped so
// passwords containing URL metacharacters survive.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   c.PostgresHost + ":" + c.PostgresPort,
		Path:   "/" + c.PostgresDB,
	}
	return u.String()
}
