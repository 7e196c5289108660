package cmd

import (
	"fmt"
	"time"

	"hragent/internal/rag"

	"github.com/spf13/cobra"
)

var flagForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Indexa os documentos de políticas para busca semântica",
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

		fmt.Printf("Indexando %d documento(s)...\n", len(cfg.Documents))
		start := time.Now()

		stats, err := pipeline.Initialize(cmd.Context(), flagForce)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		if stats.Reused {
			count, _ := st.Count()
			fmt.Printf("Índice existente reutilizado (%d trechos). Use --force para reconstruir.\n", count)
			return nil
		}

		fmt.Printf("\nConcluído em %s\n", elapsed.Round(time.Millisecond))
		fmt.Printf("  Páginas: %d\n", stats.Pages)
		fmt.Printf("  Trechos: %d\n", stats.Chunks)
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "reconstrói o índice mesmo que um utilizável exista")
	rootCmd.AddCommand(indexCmd)
}
