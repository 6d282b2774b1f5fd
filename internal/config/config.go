// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// Type is the loaded configuration. Source is the YAML file it came from and
// is empty when no file was found. Keys under Namespace, the running command,
// take precedence over global ones.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Config is the process-wide configuration.
var Config Type

func init() {
	_, _ = Load()
}

// Load locates and parses the config file and makes it the process-wide
// Config. On error Config is reset to empty, so callers can carry on with
// flags, env and defaults.
func Load() (Type, error) {
	Config = Type{}

	path, err := getConfigFile()
	if err != nil {
		return Config, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return Config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{Source: path, Data: data}
	return Config, nil
}

// SetNamespace makes keys under ns take precedence and returns the updated
// Config.
func SetNamespace(ns string) Type {
	Config.Namespace = ns
	return Config
}

// CacheClean returns cache.clean, the age in hours past which cached
// downloads are purged. Zero when unset or not a number.
func CacheClean() int {
	n, _ := number(Config.lookup("cache.clean"))
	return int(n)
}

// CacheTTL returns cache.ttl, the maximum age of a reused download. The value
// is a duration string such as "12h" or a number of hours. Zero when unset or
// unreadable.
func CacheTTL() time.Duration {
	v, ok := Config.lookup("cache.ttl")
	if !ok {
		return 0
	}
	if s, isString := v.(string); isString {
		d, err := time.ParseDuration(s)
		if err != nil {
			log.Debugf("ignoring cache.ttl %q: %v", s, err)
			return 0
		}
		return d
	}
	if n, isNumber := number(v, true); isNumber {
		return time.Duration(n * float64(time.Hour))
	}
	return 0
}

// ArgSet returns the argument set stored under <command>.<name>. A single
// string counts as a one-entry set. Non-string entries void the set.
func ArgSet(command, name string) []string {
	v, ok := walk(Config.Data, command+"."+name)
	if !ok {
		return nil
	}

	switch v := v.(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				log.Debugf("ignoring %s.%s: entry %v is not a string", command, name, item)
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

// Color returns colors.<name>, a lipgloss colour spec.
func Color(name string) (string, bool) {
	v, ok := Config.lookup("colors." + name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// lookup resolves a dotted key, preferring the namespaced variant.
func (cfg Type) lookup(key string) (any, bool) {
	if cfg.Namespace != "" {
		if v, ok := walk(cfg.Data, cfg.Namespace+"."+key); ok {
			return v, true
		}
	}
	return walk(cfg.Data, key)
}

func walk(data map[string]interface{}, key string) (any, bool) {
	var current interface{} = data
	for _, k := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if current, ok = m[k]; !ok {
			return nil, false
		}
	}
	return current, true
}

// number converts the YAML numeric kinds. The trailing ok of lookup passes
// through so number(cfg.lookup(key)) reads naturally.
func number(v any, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// getConfigFile returns the path of the YAML config file. TAGWATCH_CFG_FILE,
// when set, names the file. Otherwise tagwatch.yaml in os.UserConfigDir is
// used. The file must exist and not be a directory.
func getConfigFile() (string, error) {
	if cfgPath := os.Getenv("TAGWATCH_CFG_FILE"); cfgPath != "" {
		fileInfo, err := os.Stat(cfgPath)
		if err != nil {
			return "", fmt.Errorf("config file not found at TAGWATCH_CFG_FILE path: %s", cfgPath)
		}
		if fileInfo.IsDir() {
			return "", fmt.Errorf("TAGWATCH_CFG_FILE points to a directory: %s", cfgPath)
		}
		log.Debugf("using config file from TAGWATCH_CFG_FILE: %s", cfgPath)
		return cfgPath, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	file := filepath.Join(dir, "tagwatch.yaml")
	if fileInfo, err := os.Stat(file); err == nil && !fileInfo.IsDir() {
		log.Debugf("using config file: %s", file)
		return file, nil
	}

	return "", fmt.Errorf("no config file found in standard locations")
}
