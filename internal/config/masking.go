package config

import "strings"

// maskSecret hides all but the first and last 4 characters of a secret.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) < 8 {
		return "***"
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
