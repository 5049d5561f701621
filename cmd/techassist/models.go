package main

import (
	"fmt"
	"os"

	"github.com/sandevgo/techassist/internal/config"
	"github.com/sandevgo/techassist/internal/providers/llm"
	"github.com/sandevgo/techassist/internal/service/ui"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models offered by the configured LLM provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stderr)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		provider, err := llm.NewProvider(ctx, config.NewLLMConfig(ctx))
		if err != nil {
			return err
		}

		models, err := provider.Models(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range models {
			marker := "  "
			if m.ID == provider.Model() {
				marker = ui.UsageStyle.Render("* ")
			}
			if m.Name != "" && m.Name != m.ID {
				fmt.Fprintf(out, "%s%s %s\n", marker, m.ID, ui.DescStyle.Render(m.Name))
			} else {
				fmt.Fprintf(out, "%s%s\n", marker, m.ID)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
