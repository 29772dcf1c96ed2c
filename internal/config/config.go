package config

import (
	pkgconfig "github.com/weiawesome/wes-io-live/banuid/pkg/config"
)

// AutoShardID asks the service to derive its shard id from the host.
const AutoShardID = -1

type Config struct {
	Server ServerConfig
	GRPC   GRPCConfig
	Shard  ShardConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type GRPCConfig struct {
	Host string
	Port int
}

// ShardConfig selects the shard id. A negative ID derives it from HOSTNAME,
// /etc/machine-id and the pid; anything else is masked to 13 bits.
type ShardConfig struct {
	ID int `mapstructure:"id"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads ./config/config.yaml (if present) and the environment.
func Load() (*Config, error) {
	return LoadFrom("./config", "config")
}

// LoadFrom reads configName.yaml from configPath and the environment.
func LoadFrom(configPath, configName string) (*Config, error) {
	v, err := pkgconfig.Load(configPath, configName)
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("grpc.host", "0.0.0.0")
	v.SetDefault("grpc.port", 50053)
	v.SetDefault("shard.id", AutoShardID)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("grpc.port", "GRPC_PORT")
	v.BindEnv("shard.id", "SHARD_ID")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.pretty", "LOG_PRETTY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// AutoShard reports whether the shard id should be derived.
func (c ShardConfig) AutoShard() bool {
	return c.ID < 0
}
