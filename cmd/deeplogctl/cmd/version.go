// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog"
)

var versionCmd = &cobra.Command{
	Use:   "version [branch-id]",
	Short: "Print the highest committed version on a branch",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log, err := deeplog.Open(ctx, openStore(), logOptions()...)
		if err != nil {
			fatal(err)
		}
		version, err := log.Version(ctx, args[0])
		if err != nil {
			fatal(err)
		}
		cmd.Println(version)
	},
}
