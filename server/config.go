package server

import (
	_ "embed"
	"fmt"
	"os"

	"footsies/match"

	"gopkg.in/ini.v1"
)

//go:embed resources/default.ini
var defaultConfig []byte

// Config 服务端配置，对应 ini 文件中的各个 section
type Config struct {
	Server struct {
		Addr             string `ini:"Addr"`
		TickRate         int    `ini:"TickRate"`
		MaxInputsPerTick int    `ini:"MaxInputsPerTick"`
	} `ini:"Server"`
	Match struct {
		WinsToMatch    int `ini:"WinsToMatch"`
		RoundEndFrames int `ini:"RoundEndFrames"`
	} `ini:"Match"`
	Replay struct {
		Enabled bool   `ini:"Enabled"`
		AppName string `ini:"AppName"`
	} `ini:"Replay"`
	Log LogConfig `ini:"Log"`
}

// LogConfig 日志输出；File 为空时输出到控制台
type LogConfig struct {
	File       string `ini:"File"`
	Level      string `ini:"Level"`
	MaxSizeMB  int    `ini:"MaxSizeMB"`
	MaxBackups int    `ini:"MaxBackups"`
	MaxAgeDays int    `ini:"MaxAgeDays"`
}

// 环境变量（可以写在 .env 中）
const (
	EnvConfig = "FOOTSIES_CONFIG"
	EnvAddr   = "FOOTSIES_ADDR"
)

// LoadConfig 读取内置默认配置，再叠加 path 指定的用户配置（path 为空或文件不存在时忽略）
func LoadConfig(path string) (*Config, error) {
	options := ini.LoadOptions{
		Loose:                   true,
		SkipUnrecognizableLines: true,
	}
	sources := []any{path}
	if path == "" {
		sources = nil
	}
	f, err := ini.LoadSources(options, defaultConfig, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	var c Config
	if err := f.MapTo(&c); err != nil {
		return nil, fmt.Errorf("failed to map config %q: %w", path, err)
	}
	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	c.normalize()
	return &c, nil
}

func (c *Config) normalize() {
	c.Server.TickRate = max(1, min(c.Server.TickRate, 240))
	c.Server.MaxInputsPerTick = max(1, c.Server.MaxInputsPerTick)
	if c.Match.WinsToMatch <= 0 {
		c.Match.WinsToMatch = int(match.DefaultRules().WinsToMatch)
	}
	c.Match.WinsToMatch = min(c.Match.WinsToMatch, 99)
	c.Match.RoundEndFrames = max(0, min(c.Match.RoundEndFrames, 600))
	if c.Replay.AppName == "" {
		c.Replay.AppName = "footsies"
	}
}

// Rules 对局规则
func (c *Config) Rules() match.Rules {
	return match.Rules{WinsToMatch: uint8(c.Match.WinsToMatch), RoundEndFrames: uint16(c.Match.RoundEndFrames)}
}
