// Copyright © 2018 One Concern

package main

import "github.com/ScorpionBytes/deeplake-AI-DB/cmd/deeplogctl/cmd"

func main() {
	cmd.Execute()
}
