// Package config loads runtime configuration from YAML with environment
// overrides. Every value has a default so the binary runs without a config
// file; the file and env vars only reshape the built-in behavior.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// AgentConfig describes one agent in the roster: its profile popup content
// and the canned reply it produces.
type AgentConfig struct {
	Name         string   `yaml:"name"`
	Role         string   `yaml:"role"`
	Glyph        string   `yaml:"glyph"`
	Description  string   `yaml:"description"`
	Capabilities []string `yaml:"capabilities"`
	Reply        string   `yaml:"reply"`
}

// MemberConfig seeds the member roster at startup.
type MemberConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Role   string `yaml:"role"`
	Status string `yaml:"status"`
}

// Config holds every tunable of the chat widget.
type Config struct {
	LogLevel        string         `yaml:"logLevel"`
	UserLabel       string         `yaml:"userLabel"`
	DefaultChatName string         `yaml:"defaultChatName"`
	ReplyDelayMS    int            `yaml:"replyDelayMs"`
	RemoveDelayMS   int            `yaml:"removeDelayMs"`
	NotifyShowMS    int            `yaml:"notifyShowMs"`
	NotifyFadeMS    int            `yaml:"notifyFadeMs"`
	Breakpoint      int            `yaml:"breakpoint"`
	ExportDir       string         `yaml:"exportDir"`
	Agents          []AgentConfig  `yaml:"agents"`
	Members         []MemberConfig `yaml:"members"`
}

// Default returns the built-in configuration, matching the original
// hard-coded behavior.
func Default() Config {
	return Config{
		LogLevel:        "info",
		UserLabel:       "用户",
		DefaultChatName: "AI_Team",
		ReplyDelayMS:    1000,
		RemoveDelayMS:   300,
		NotifyShowMS:    3000,
		NotifyFadeMS:    500,
		Breakpoint:      768,
		ExportDir:       ".",
		Agents: []AgentConfig{
			{
				Name: "Claude", Role: "AI 助手", Glyph: "C",
				Description:  "由 Anthropic 开发的 AI 助手，擅长推理、长文写作和代码分析。",
				Capabilities: []string{"推理分析", "长文写作", "代码理解"},
				Reply:        "收到！这是一条模拟回复，接入真实智能体后将由模型生成。",
			},
			{
				Name: "GPT-4", Role: "AI 助手", Glyph: "G",
				Description:  "由 OpenAI 开发的大型语言模型，知识面广，支持多轮对话。",
				Capabilities: []string{"多轮对话", "知识问答", "文本生成"},
			},
			{
				Name: "Copilot", Role: "编程助手", Glyph: "Co",
				Description:  "由 GitHub 开发的编程助手，擅长代码补全和重构建议。",
				Capabilities: []string{"代码补全", "重构建议", "单元测试"},
			},
		},
		Members: []MemberConfig{
			{ID: "agent-claude", Name: "Claude", Role: "AI 助手", Status: "online"},
			{ID: "agent-gpt4", Name: "GPT-4", Role: "AI 助手", Status: "online"},
			{ID: "agent-copilot", Name: "Copilot", Role: "编程助手", Status: "busy"},
		},
	}
}

// Load reads config from path (defaults to config.yaml). A missing file is
// not an error: the defaults apply. Environment variables override both.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	// Override with environment variables
	if v := os.Getenv("AGENTCHAT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AGENTCHAT_USER_LABEL"); v != "" {
		cfg.UserLabel = v
	}
	if v := os.Getenv("AGENTCHAT_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	cfg.ReplyDelayMS = envInt("AGENTCHAT_REPLY_DELAY_MS", cfg.ReplyDelayMS)
	cfg.RemoveDelayMS = envInt("AGENTCHAT_REMOVE_DELAY_MS", cfg.RemoveDelayMS)

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.UserLabel == "" {
		return fmt.Errorf("config: userLabel is required")
	}
	if cfg.ReplyDelayMS < 0 || cfg.RemoveDelayMS < 0 || cfg.NotifyShowMS < 0 || cfg.NotifyFadeMS < 0 {
		return fmt.Errorf("config: delays must not be negative")
	}
	if cfg.Breakpoint <= 0 {
		return fmt.Errorf("config: breakpoint must be positive")
	}
	for _, a := range cfg.Agents {
		if a.Name == "" {
			return fmt.Errorf("config: agent name is required")
		}
	}
	return nil
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// ReplyDelay returns the canned-reply delay as a duration.
func (c Config) ReplyDelay() time.Duration {
	return time.Duration(c.ReplyDelayMS) * time.Millisecond
}

// RemoveDelay returns the member-removal transition window.
func (c Config) RemoveDelay() time.Duration {
	return time.Duration(c.RemoveDelayMS) * time.Millisecond
}

// NotifyShow returns how long a toast stays fully visible.
func (c Config) NotifyShow() time.Duration {
	return time.Duration(c.NotifyShowMS) * time.Millisecond
}

// NotifyFade returns the toast fade-out window.
func (c Config) NotifyFade() time.Duration {
	return time.Duration(c.NotifyFadeMS) * time.Millisecond
}
