package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Config holds every parameter of the counter service.
type Config struct {
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	App      AppConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type AppConfig struct {
	Port              int
	TaxRate           string // decimal literal, e.g. "0.10"
	SessionTTLMinutes int
	Terminal          string
}

// Load reads a two-level YAML file without external packages.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{
		App: AppConfig{Port: 3000, TaxRate: "0.10", SessionTTLMinutes: 720, Terminal: "counter-1"},
	}
	scanner := bufio.NewScanner(file)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		switch section {
		case "database":
			switch key {
			case "host":
				cfg.Database.Host = value
			case "port":
				cfg.Database.Port, _ = strconv.Atoi(value)
			case "user":
				cfg.Database.User = value
			case "password":
				cfg.Database.Password = value
			case "database":
				cfg.Database.Database = value
			}
		case "rabbitmq":
			switch key {
			case "host":
				cfg.RabbitMQ.Host = value
			case "port":
				cfg.RabbitMQ.Port, _ = strconv.Atoi(value)
			case "user":
				cfg.RabbitMQ.User = value
			case "password":
				cfg.RabbitMQ.Password = value
			case "vhost":
				cfg.RabbitMQ.VHost = value
			}
		case "app":
			switch key {
			case "port":
				cfg.App.Port, _ = strconv.Atoi(value)
			case "tax_rate":
				cfg.App.TaxRate = value
			case "session_ttl_minutes":
				cfg.App.SessionTTLMinutes, _ = strconv.Atoi(value)
			case "terminal":
				cfg.App.Terminal = value
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	if cfg.Database.Host == "" || cfg.RabbitMQ.Host == "" {
		return nil, fmt.Errorf("invalid config: missing database/rabbitmq host")
	}
	return cfg, nil
}

// FindConfig returns the first config path that exists.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}
