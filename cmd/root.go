package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "poolopt",
	Short: "poolopt removes redundant candidate packages from a dependency resolution pool",
	Long:  `The tool takes the candidate pool and the request of a package dependency resolution run and prunes all packages which are interchangeable with a preferred candidate, so the solver searches a drastically smaller universe`,
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	rootCmd.AddCommand(NewOptimizeCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
