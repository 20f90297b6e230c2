// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package env tracks which deployment environment the process runs in.
package env

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	Local      = "local"
	Staging    = "staging"
	Production = "production"
	Testing    = "testing"

	// Key is the configuration key (and ENV variable) holding the environment.
	Key = "env"
)

// Env is the current environment. It defaults to Local until Load runs.
var Env = Local

// Load reads the environment from v. Unknown values are kept as given so a
// typo shows up in logs instead of silently becoming production.
func Load(v *viper.Viper) string {
	Env = Normalize(v.GetString(Key))
	return Env
}

// Normalize lower-cases name and maps the common short forms.
func Normalize(name string) string {
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "":
		return Local
	case "dev", "development":
		return Local
	case "prod":
		return Production
	case "stage":
		return Staging
	case "test":
		return Testing
	default:
		return name
	}
}

func IsLocal() bool {
	return Env == Local
}

func IsProduction() bool {
	return Env == Production
}
