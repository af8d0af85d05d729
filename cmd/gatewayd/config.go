package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	gateway "github.com/PluralKit/PluralKit-sub000"
)

type fileConfig struct {
	Node struct {
		ID       int    `mapstructure:"id"`
		Total    int    `mapstructure:"total"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"node"`

	Gateway struct {
		TotalShards    int    `mapstructure:"total_shards"`
		MaxConcurrency int    `mapstructure:"max_concurrency"`
		Token          string `mapstructure:"token"`
		EventTarget    string `mapstructure:"event_target"`
	} `mapstructure:"gateway"`

	API struct {
		ListenAddr string `mapstructure:"listen_addr"`
	} `mapstructure:"api"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	GraceDelay time.Duration `mapstructure:"grace_delay"`
}

func loadConfig(path string) (*fileConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("GATEWAY")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c fileConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &c, nil
}

func (c *fileConfig) gatewayConfig() gateway.Config {
	cfg := gateway.DefaultConfig()
	cfg.NodeID = c.Node.ID
	if c.Node.Total > 0 {
		cfg.TotalNodes = c.Node.Total
	}
	if c.Gateway.TotalShards > 0 {
		cfg.TotalShards = c.Gateway.TotalShards
	}
	if c.Gateway.MaxConcurrency > 0 {
		cfg.MaxConcurrency = c.Gateway.MaxConcurrency
	}
	cfg.Token = c.Gateway.Token
	cfg.EventTarget = c.Gateway.EventTarget
	if c.API.ListenAddr != "" {
		cfg.ListenAddr = c.API.ListenAddr
	}
	if c.GraceDelay > 0 {
		cfg.GraceDelay = c.GraceDelay
	}
	return cfg
}
