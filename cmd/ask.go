package cmd

import (
	"fmt"
	"strings"

	"hragent/internal/rag"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <pergunta>",
	Short: "Responde uma única pergunta e sai",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pipeline, st, err := rag.FromConfig(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if _, err := pipeline.Initialize(cmd.Context(), false); err != nil {
			return err
		}

		question := strings.Join(args, " ")
		result, err := pipeline.Answer(cmd.Context(), question)
		if err != nil {
			return err
		}

		fmt.Println(result.Answer)

		if len(result.Sources) > 0 {
			fmt.Println("\nFontes:")
			for i, src := range result.Sources {
				fmt.Printf("  [%d] %s (página %d, categoria: %s)\n", i+1, src.Source, src.Page, src.Category)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
