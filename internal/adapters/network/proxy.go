// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package network

import (
	"os"
	"strings"
)

// GetProxyEnv returns proxy-related environment variables for passing to
// launched installers, in both cases. Lowercase takes precedence per Unix convention.
func GetProxyEnv() []string {
	return proxyEnv(os.Getenv)
}

func proxyEnv(getenv func(string) string) []string {
	var env []string

	for _, name := range []string{"http_proxy", "https_proxy", "no_proxy"} {
		upperName := strings.ToUpper(name)

		value := getenv(name)
		if value == "" {
			value = getenv(upperName)
		}

		if value != "" {
			env = append(env, name+"="+value, upperName+"="+value)
		}
	}

	return env
}
