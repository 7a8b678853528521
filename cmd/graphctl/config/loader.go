// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the graphctl configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// GraphctlConfig holds the persistent CLI defaults. Flags override these,
// and DATABRICKS_TOKEN overrides the token field.
type GraphctlConfig struct {
	// Server is the graph gateway base URL.
	Server string `yaml:"server"`

	// Table is the default Databricks table in catalog.schema.table form.
	Table string `yaml:"table"`

	// Token is the Databricks access token forwarded on each request.
	// Prefer the DATABRICKS_TOKEN env var over storing it here.
	Token string `yaml:"token"`
}

// DefaultConfig targets a locally running gateway.
func DefaultConfig() GraphctlConfig {
	return GraphctlConfig{
		Server: "http://localhost:12230",
	}
}

var (
	// Global is a singleton instance
	Global GraphctlConfig
	once   sync.Once
)

// Load ensures the config is loaded into the Global variable, creating a
// default file on first run.
func Load() error {
	var err error
	once.Do(func() {
		err = loadInternal()
	})
	return err
}

func loadInternal() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("could not find the user's home directory: %w", err)
	}
	configPath := filepath.Join(home, ".aleutiangraph", "graphctl.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("First run detected, creating the config at %s\n", configPath)
		if err := createDefault(configPath); err != nil {
			return err
		}
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read the config file: %w", err)
	}
	Global = DefaultConfig()
	if err = yaml.Unmarshal(data, &Global); err != nil {
		return fmt.Errorf("failed to parse the config file: %w", err)
	}
	if token := os.Getenv("DATABRICKS_TOKEN"); token != "" {
		Global.Token = token
	}
	return nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
