// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [branch-id]",
	Short: "Print the data files and tensors a branch's snapshot sees",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log, err := deeplog.Open(ctx, openStore(), logOptions()...)
		if err != nil {
			fatal(err)
		}
		snap, err := deeplog.Data(ctx, log, args[0], nil)
		if err != nil {
			fatal(err)
		}
		cmd.Printf("version: %d\n", snap.Version())
		for _, f := range snap.DataFiles() {
			cmd.Printf("add\t%s\t%d bytes\n", f.Path, f.Size)
		}
		for _, tensor := range snap.Tensors() {
			cmd.Printf("tensor\t%s\t%s\n", tensor.Name, tensor.Htype)
		}
	},
}
