// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var healthJSONOutput bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show gateway and store health",
	Long: `Queries the gateway's /health endpoint.

Reports local store sizes and whether a Databricks warehouse is configured.

Examples:
  graphctl health
  graphctl health --json    # JSON output for scripting`,
	RunE: runHealthCommand,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSONOutput, "json", false,
		"Output as JSON for scripting")
}

func runHealthCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	resp, err := newClient().Health(ctx)
	if err != nil {
		return err
	}

	if healthJSONOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Printf("Status:     %s\n", resp.Status)
	fmt.Printf("Local:      %d nodes, %d edges\n", resp.Database.NodeCount, resp.Database.EdgeCount)
	if resp.Databricks.Configured {
		fmt.Printf("Databricks: configured (host %s, table %s)\n",
			resp.Databricks.Host, resp.Databricks.Table)
	} else {
		fmt.Println("Databricks: not configured (local store only)")
	}
	return nil
}
