package config

import "time"

// Database is optional. An empty URL runs the service on the in-process
// store.
type Database struct {
	URL              string        `env:"URL,expand"`
	MinConns         int32         `env:"MIN_CONNS" envDefault:"1"`
	MaxConns         int32         `env:"MAX_CONNS" envDefault:"10"`
	ConnectRetries   int           `env:"CONNECT_RETRIES" envDefault:"5"`
	ConnectTimeout   time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	AutoMigrate      bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	IsolatedRunnerID string        `env:"ISOLATED_RUNNER_ID"`
	IsolatedRunNum   string        `env:"ISOLATED_RUN_NUMBER"`
}

func (d Database) Enabled() bool { return d.URL != "" }

func (d Database) Isolated() bool {
	return d.IsolatedRunnerID != "" && d.IsolatedRunNum != ""
}
