// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Initialize a new transaction log",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log, err := deeplog.Create(ctx, openStore(), deeplog.LogFormat, logOptions()...)
		if err != nil {
			fatal(err)
		}
		meta, err := deeplog.Metadata(ctx, log, nil)
		if err != nil {
			fatal(err)
		}
		datasetMeta, err := meta.DatasetMetadata()
		if err != nil {
			fatal(err)
		}
		cmd.Printf("created dataset %s\n", datasetMeta.ID)
	},
}
