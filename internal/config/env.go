package config

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadEnv loads environment variables from a .env file. Lines are parsed
// as KEY=VALUE; empty lines and comments (lines starting with #) are
// skipped.
func LoadEnv(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key != "" {
			os.Setenv(key, value)
		}
	}

	return nil
}

// LoadEnvOptional loads a .env file if it exists; a missing file is not
// an error.
func LoadEnvOptional(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return LoadEnv(path)
}

// expandEnvVars expands environment references and home directories in
// configuration values.
func expandEnvVars(c *Config) {
	if strings.HasPrefix(c.LLM.Gemini.APIKey, "${") {
		c.LLM.Gemini.APIKey = expandEnv(c.LLM.Gemini.APIKey)
	}
	if strings.HasPrefix(c.Channels.Telegram.Token, "${") {
		c.Channels.Telegram.Token = expandEnv(c.Channels.Telegram.Token)
	}
	if strings.HasPrefix(c.Workspace.Path, "${") {
		c.Workspace.Path = expandEnv(c.Workspace.Path)
	}
	c.Workspace.Path = expandHome(c.Workspace.Path)
}

// expandEnv expands a ${VAR} or ${VAR:default} reference.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		if val := os.Getenv(parts[0]); val != "" {
			return val
		}
		return parts[1]
	}

	return os.Getenv(content)
}

// expandHome expands a leading ~ in a path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
