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

	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/datatypes"
)

var pushCmd = &cobra.Command{
	Use:   "push <file.json>",
	Short: "Push a nodes/edges document to the gateway",
	Long: `Reads a JSON document of the form {"nodes": [...], "edges": [...]} and
posts it to the gateway write endpoint. The gateway routes it to the
Databricks warehouse when reachable, or to the local store otherwise.

Examples:
  graphctl push graph.json
  graphctl push graph.json --table main.default.edges`,
	Args: cobra.ExactArgs(1),
	RunE: runPushCommand,
}

func runPushCommand(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	var req datatypes.WriteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	if req.Empty() {
		fmt.Println("Nothing to push: document has no nodes or edges.")
		return nil
	}

	logger.Debug("pushing batch", "nodes", len(req.Nodes), "edges", len(req.Edges))

	ctx, cancel := context.WithTimeout(cmd.Context(), 120*time.Second)
	defer cancel()

	resp, err := newClient().PushGraph(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Saved to %s: %d nodes, %d edges (job %s)\n",
		resp.Target, resp.WrittenNodes, resp.WrittenEdges, resp.JobID)
	if resp.Metadata.DatabricksError != "" {
		fmt.Printf("Warehouse warning: %s\n", resp.Metadata.DatabricksError)
	}
	return nil
}
