package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sandevgo/techassist/internal/config"
	"github.com/sandevgo/techassist/pkg/env"
	"github.com/sandevgo/techassist/pkg/log"
	"github.com/spf13/cobra"
)

var configReveal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as .env",
	Long:  `Prints every non-empty setting after defaults and .env files are applied. Secrets are masked unless --reveal is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stderr)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg, err := config.LoadAppConfig()
		if err != nil {
			return err
		}
		// An invalid provider setup is still worth printing.
		llmCfg, llmErr := config.LoadLLMConfig()
		if llmCfg == nil {
			return llmErr
		}
		retrievalCfg, err := config.LoadRetrievalConfig()
		if err != nil {
			return err
		}
		httpCfg, err := config.LoadHTTPConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, group := range []struct {
			name string
			cfg  any
		}{
			{"app", appCfg},
			{"llm", llmCfg},
			{"retrieval", retrievalCfg},
			{"http", httpCfg},
		} {
			content, err := env.MarshalEnv(group.cfg, configReveal)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s\n%s\n", group.name, content)
		}

		if llmErr != nil {
			log.FromCtx(ctx).Warn().Err(llmErr).Msg("llm configuration is incomplete")
			return errors.New("configuration is invalid")
		}
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configReveal, "reveal", false, "print secrets in clear text")
	rootCmd.AddCommand(configCmd)
}
