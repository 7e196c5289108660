package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"hragent/internal/rag"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Abre um chat de perguntas e respostas no terminal",
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

		fmt.Println("Preparando o índice de políticas...")
		stats, err := pipeline.Initialize(cmd.Context(), false)
		if err != nil {
			return err
		}
		if stats.Reused {
			fmt.Println("Índice existente reutilizado.")
		} else {
			fmt.Printf("Indexação concluída: %d trecho(s) de %d página(s).\n", stats.Chunks, stats.Pages)
		}

		fmt.Println()
		fmt.Println("Agente de RH pronto. Digite sua pergunta (sair, exit ou quit para encerrar).")
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}

			switch strings.ToLower(question) {
			case "sair", "exit", "quit":
				fmt.Println("Até logo.")
				return nil
			}

			result, err := pipeline.Answer(cmd.Context(), question)
			if err != nil {
				// Per-query failures don't end the session.
				fmt.Fprintf(os.Stderr, "erro: %v\n", err)
				continue
			}

			fmt.Println()
			fmt.Println(result.Answer)
			if len(result.Sources) > 0 {
				fmt.Println("\nFontes:")
				for i, src := range result.Sources {
					fmt.Printf("  [%d] %s (página %d, categoria: %s)\n", i+1, src.Source, src.Page, src.Category)
				}
			}
			fmt.Println()
		}

		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
