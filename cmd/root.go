package cmd

import (
	"os"

	"hragent/internal/config"
	"hragent/internal/logger"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagDB      string
	flagDocs    []string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hragent",
	Short: "Agente de RH que responde perguntas sobre políticas internas",
	Long: "hragent indexa documentos de políticas internas (PDF ou texto) e responde\n" +
		"perguntas em linguagem natural, fundamentando cada resposta nos trechos\n" +
		"recuperados dos próprios documentos.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the application config and applies CLI overrides.
func loadConfig() (*config.AppConfig, error) {
	logger.SetVerbose(flagVerbose)

	var cfg *config.AppConfig
	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if len(flagDocs) > 0 {
		cfg.Documents = flagDocs
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "caminho do arquivo de configuração (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "caminho do banco de índice (default .hragent/index.db)")
	rootCmd.PersistentFlags().StringSliceVar(&flagDocs, "doc", nil, "documento a indexar (repetível; sobrepõe a configuração)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log detalhado de cada etapa no stderr")
}
