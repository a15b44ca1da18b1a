// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint [branch-id]",
	Short: "Fold a branch's history into a checkpoint",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log, err := deeplog.Open(ctx, openStore(), logOptions()...)
		if err != nil {
			fatal(err)
		}
		if err := log.Checkpoint(ctx, args[0]); err != nil {
			fatal(err)
		}
	},
}
