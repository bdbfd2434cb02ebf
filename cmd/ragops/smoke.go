package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/smoke"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run the deployment smoke test",
	Long: `Loads .env from the project root, rebuilds the index via a subprocess,
then probes /health, /config/prompt, /metrics, /query and /update_index in
order. The first failing step aborts the run with a non-zero exit.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(globalOpts.root)
		if err != nil {
			return err
		}

		env, err := smoke.LoadEnv(root)
		if err != nil {
			return err
		}

		return smoke.NewRunner(env).Run(cmd.Context())
	},
}
