// Package build provides the environment handed to bundler subprocesses.
//
// Every bundler invocation should use GetBundlerEnv so the network identifier
// and production mode reach the bundled code the same way regardless of engine.
package build

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"adbuild/internal/config"
	"adbuild/internal/logging"
)

const (
	// NodeEnvKey selects the production code paths in bundled dependencies.
	NodeEnvKey = "NODE_ENV"
	// AdNetworkKey carries the network identifier into the bundle.
	AdNetworkKey = "AD_NETWORK"
)

// GetBundlerEnv returns the environment for a bundler run.
// It merges:
// 1. Current process environment
// 2. Project-local node_modules/.bin prepended to PATH, when present
// 3. Bundler env_vars from config
// 4. NODE_ENV=production and AD_NETWORK=<network>
//
// The last step always wins so config cannot retarget a network's build.
func GetBundlerEnv(cfg *config.BundlerConfig, projectRoot, network string) []string {
	logging.BuildDebug("Building bundler environment for %s in %s", network, projectRoot)

	env := os.Environ()

	if bin := detectNodeBin(projectRoot); bin != "" {
		env = prependPath(env, bin)
		logging.BuildDebug("Prepended node bin dir to PATH: %s", bin)
	}

	if cfg != nil {
		keys := make([]string, 0, len(cfg.EnvVars))
		for k := range cfg.EnvVars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+cfg.EnvVars[k])
			logging.BuildDebug("Added bundler config env: %s", k)
		}
		env = MergeEnv(env, pairs...)
	}

	env = setEnvKey(env, NodeEnvKey, "production")
	env = setEnvKey(env, AdNetworkKey, network)

	logging.BuildDebug("Final bundler environment has %d vars", len(env))
	return env
}

// detectNodeBin returns <root>/node_modules/.bin when it exists.
func detectNodeBin(projectRoot string) string {
	if projectRoot == "" {
		return ""
	}
	absRoot := projectRoot
	if !filepath.IsAbs(projectRoot) {
		if abs, err := filepath.Abs(projectRoot); err == nil {
			absRoot = abs
		}
	}
	bin := filepath.Join(absRoot, "node_modules", ".bin")
	if info, err := os.Stat(bin); err == nil && info.IsDir() {
		return bin
	}
	return ""
}

func prependPath(env []string, dir string) []string {
	current, _ := lookupEnv(env, "PATH")
	if current == "" {
		return setEnvKey(env, "PATH", dir)
	}
	return setEnvKey(env, "PATH", dir+string(os.PathListSeparator)+current)
}

// lookupEnv returns the value of key in env.
func lookupEnv(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return strings.TrimPrefix(e, prefix), true
		}
	}
	return "", false
}

// setEnvKey sets or updates an environment variable.
func setEnvKey(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = key + "=" + value
			return env
		}
	}
	return append(env, key+"="+value)
}

// MergeEnv merges additional environment variables into base env.
// Later values override earlier ones.
func MergeEnv(base []string, additional ...string) []string {
	result := make([]string, len(base))
	copy(result, base)

	for _, add := range additional {
		parts := strings.SplitN(add, "=", 2)
		if len(parts) == 2 {
			result = setEnvKey(result, parts[0], parts[1])
		}
	}

	return result
}
