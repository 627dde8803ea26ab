// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var elaborateCmd = &cobra.Command{
	Use:   "elaborate",
	Short: "Expand one research idea in detail",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		idea, _ := cmd.Flags().GetString("idea")
		wordLimit, _ := cmd.Flags().GetInt("word-limit")
		plain, _ := cmd.Flags().GetBool("plain")

		a, err := llmAnalyzer(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		text, err := a.Elaborate(cmd.Context(), topic, idea, wordLimit)
		if err != nil {
			return err
		}
		newPrinter(cmd.OutOrStdout(), plain).markdown(text)
		return nil
	},
}

func init() {
	elaborateCmd.Flags().String("topic", "", "research topic the idea belongs to")
	elaborateCmd.Flags().String("idea", "", "idea text to elaborate (required)")
	elaborateCmd.Flags().Int("word-limit", 0, "word limit for the elaboration (default from config)")
	elaborateCmd.Flags().Bool("plain", false, "print plain text instead of rendered Markdown")
	_ = elaborateCmd.MarkFlagRequired("idea")
	rootCmd.AddCommand(elaborateCmd)
}
