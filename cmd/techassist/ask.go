package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/techassist/internal/core"
	"github.com/spf13/cobra"
)

var (
	askHistoryFile string
	askSources     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Answers one question and exits. --history takes a JSON file with earlier
messages in the messaging format: [{"fromMe": true, "body": "..."}].`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stderr)
		defer flushLog()

		history, err := readHistory(askHistoryFile)
		if err != nil {
			return err
		}

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		reply, err := app.Answerer.Respond(ctx, history, strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, reply.Answer)
		if askSources {
			fmt.Fprintln(out)
			for i, d := range reply.Documents {
				fmt.Fprintf(out, "[%d] %s (distance %.4f) %v\n", i+1, d.ID, d.Distance, d.Metadata["source"])
			}
		}
		return nil
	},
}

func readHistory(path string) ([]core.HistoryEntry, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var history []core.HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	return history, nil
}

func init() {
	askCmd.Flags().StringVar(&askHistoryFile, "history", "", "JSON file with prior messages")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print the retrieved documents")
	rootCmd.AddCommand(askCmd)
}
