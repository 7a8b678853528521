// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// graphctl is the command line client for the graph gateway service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianGraph/cmd/graphctl/config"
	"github.com/AleutianAI/AleutianGraph/pkg/logging"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

var (
	flagServer  string // Gateway base URL
	flagTable   string // Databricks table override
	flagToken   string // Databricks access token override
	flagVerbose bool   // Debug logging
)

// logger is the CLI-wide logger, configured in PersistentPreRun.
var logger = logging.Default()

var rootCmd = &cobra.Command{
	Use:   "graphctl",
	Short: "Client for the AleutianGraph gateway",
	Long: `graphctl talks to a running graph gateway service.

It reads defaults from ~/.aleutiangraph/graphctl.yaml; flags override the
file and DATABRICKS_TOKEN overrides the stored token.

Examples:
  graphctl health
  graphctl fetch --json
  graphctl push graph.json
  graphctl delete-node n1
  graphctl delete-edge e1 --table main.default.edges`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if flagServer == "" {
			flagServer = config.Global.Server
		}
		if flagTable == "" {
			flagTable = config.Global.Table
		}
		if flagToken == "" {
			flagToken = config.Global.Token
		}
		level := logging.LevelInfo
		if flagVerbose {
			level = logging.LevelDebug
		}
		logger = logging.New(logging.Config{Level: level, Service: "graphctl"})
		logger.Debug("resolved configuration",
			"server", flagServer, "table", flagTable, "token_present", flagToken != "")
		return nil
	},
}

func newClient() *gatewayClient {
	return newGatewayClient(flagServer, flagTable, flagToken)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "",
		"Gateway base URL (default from config file)")
	rootCmd.PersistentFlags().StringVar(&flagTable, "table", "",
		"Databricks table in catalog.schema.table form")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "",
		"Databricks access token (prefer DATABRICKS_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(deleteNodeCmd)
	rootCmd.AddCommand(deleteEdgeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
