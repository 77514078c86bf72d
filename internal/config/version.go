package config

import "os"

// Set at build time with
//
//	-ldflags "-X energydash/internal/config.Version=1.4.0 -X energydash/internal/config.Commit=abc123"
var (
	Version = "0.1.0"
	Commit  = ""
)

// GetVersion returns APP_VERSION when set (CI/CD), otherwise the linked
// version with the short commit appended.
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	if Commit == "" {
		return Version
	}
	short := Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return Version + "+" + short
}
