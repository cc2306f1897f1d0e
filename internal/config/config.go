package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	// StorageBackend selects "postgres" or "memory".
	StorageBackend string

	HTTPPort string

	// LockTimeout bounds how long a unit of work waits for an account row
	// lock before failing with a retryable lock timeout.
	LockTimeout time.Duration

	// OperatorWorkers is the number of concurrent units of work.
	OperatorWorkers int
}

func ProcessEnvironmentVariables() (*Config, error) {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		StorageBackend:   "postgres",
		HTTPPort:         "9446",
		LockTimeout:      3 * time.Second,
		OperatorWorkers:  8,
	}

	if v := os.Getenv("POSTGRES_ADDRESS"); len(v) != 0 {
		env.PostgresAddress = v
	}
	if v := os.Getenv("POSTGRES_PORT"); len(v) != 0 {
		env.PostgresPort = v
	}
	if v := os.Getenv("POSTGRES_DB"); len(v) != 0 {
		env.PostgresDB = v
	}
	if v := os.Getenv("POSTGRES_USERNAME"); len(v) != 0 {
		env.PostgresUsername = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); len(v) != 0 {
		env.PostgresPassword = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); len(v) != 0 {
		env.StorageBackend = v
	}
	if v := os.Getenv("HTTP_PORT"); len(v) != 0 {
		env.HTTPPort = v
	}
	if v := os.Getenv("LOCK_TIMEOUT_MS"); len(v) != 0 {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		env.LockTimeout = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("OPERATOR_WORKERS"); len(v) != 0 {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		env.OperatorWorkers = workers
	}

	return &env, nil
}

// PostgresURL builds the connection string for the configured database.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" + c.PostgresPassword +
		"@" + c.PostgresAddress + ":" + c.PostgresPort + "/" + c.PostgresDB +
		"?sslmode=disable"
}
