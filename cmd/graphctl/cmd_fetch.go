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

var fetchJSONOutput bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the graph and print a summary",
	Long: `Fetches the full graph through the gateway (primary store with local
fallback) and prints a summary, or the raw response with --json.

Examples:
  graphctl fetch
  graphctl fetch --json > graph.json
  graphctl fetch --table main.default.edges`,
	RunE: runFetchCommand,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchJSONOutput, "json", false,
		"Print the raw graph response as JSON")
}

func runFetchCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	resp, err := newClient().FetchGraph(ctx)
	if err != nil {
		return err
	}

	if fetchJSONOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Printf("Source:   %s", resp.Metadata.Source)
	if resp.Metadata.DatabricksError != "" {
		fmt.Printf(" (%s)", resp.Metadata.DatabricksError)
	}
	fmt.Println()
	fmt.Printf("Fetched:  %d nodes, %d edges in %dms\n",
		len(resp.Nodes), len(resp.Edges), resp.Metadata.DurationMs)

	byType := make(map[string]int)
	for _, n := range resp.Nodes {
		byType[n.Type]++
	}
	for typ, count := range byType {
		fmt.Printf("  %-20s %d\n", typ, count)
	}
	return nil
}
