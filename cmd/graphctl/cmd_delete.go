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
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var deleteNodeCmd = &cobra.Command{
	Use:   "delete-node <id>",
	Short: "Delete a node and its edges",
	Long: `Deletes a node from the warehouse (best-effort) and the local store,
cascading to every edge that touches it.

Examples:
  graphctl delete-node n1
  graphctl delete-node n1 --table main.default.edges`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		resp, err := newClient().DeleteNode(ctx, args[0])
		if err != nil {
			return err
		}
		printDeleteResult("node", args[0], resp.Target, resp.Deleted)
		return nil
	},
}

var deleteEdgeCmd = &cobra.Command{
	Use:   "delete-edge <id>",
	Short: "Delete a single edge",
	Long: `Deletes an edge from the warehouse (matched by its source, target and
relationship type) and from the local store.

Examples:
  graphctl delete-edge e1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		resp, err := newClient().DeleteEdge(ctx, args[0])
		if err != nil {
			return err
		}
		printDeleteResult("edge", args[0], resp.Target, resp.Deleted)
		return nil
	},
}

func printDeleteResult(kind, id, target string, deleted bool) {
	if deleted {
		fmt.Printf("Deleted %s %s from %s\n", kind, id, target)
		return
	}
	fmt.Printf("No %s %s found (checked %s)\n", kind, id, target)
}
