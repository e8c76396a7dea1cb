package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifelevels/journal-backend/internal/llm"
)

var llmCheckCmd = &cobra.Command{
	Use:   "llm-check",
	Short: "Send a one-line prompt to the configured chat-completion API",
	RunE:  runLLMCheck,
}

func init() {
	rootCmd.AddCommand(llmCheckCmd)
}

func runLLMCheck(cmd *cobra.Command, args []string) error {
	client := llm.New(&cfg.LLM)

	start := time.Now()
	res, err := client.Complete(cmd.Context(), []llm.Message{
		{Role: "system", Content: `Reply with the JSON object {"ok": true}.`},
		{Role: "user", Content: "ping"},
	})
	if err != nil {
		return fmt.Errorf("llm check against %s: %w", cfg.LLM.BaseURL, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "model=%s latency=%s tokens=%d/%d reply=%s\n",
		res.Model, time.Since(start).Round(time.Millisecond), res.PromptTokens, res.CompletionTokens, res.Content)
	return nil
}
