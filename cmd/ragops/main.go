// Package main provides the ragops operator CLI: index rebuilds and
// deployment smoke tests for the docs assistant.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

var globalOpts struct {
	root string
}

var rootCmd = &cobra.Command{
	Use:   "ragops",
	Short: "Operator tooling for the Aqtra docs assistant",
	Long: `ragops bundles the maintenance commands a deployment needs:

  reindex    rebuild the documentation vector index from the docs corpus
  smoke      run the deployment smoke test against a running instance`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger_i.Init()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalOpts.root, "root", ".", "project root holding .env and the docs corpus")
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(smokeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
