package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    Storage `yaml:"storage"`
	Redis      Redis   `yaml:"redis"`
	SQLite     SQLite  `yaml:"sqlite"`
	Rules      Rules   `yaml:"rules"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB   int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"./tictactoe.db"`
}

type Rules struct {
	StrictMoves      bool `yaml:"strict-moves" env:"RULES_STRICT_MOVES" env-default:"false"`
	StrictAccept     bool `yaml:"strict-accept" env:"RULES_STRICT_ACCEPT" env-default:"false"`
	EnforceTurnOrder bool `yaml:"enforce-turn-order" env:"RULES_ENFORCE_TURN_ORDER" env-default:"false"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	switch config.Storage.Driver {
	case DriverRedis, DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Rules) EntityRules() entity.Rules {
	return entity.Rules{
		StrictMoves:      that.StrictMoves,
		StrictAccept:     that.StrictAccept,
		EnforceTurnOrder: that.EnforceTurnOrder,
	}
}
