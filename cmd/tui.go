package cmd

import (
	"hragent/internal/rag"
	"hragent/internal/tui"
)

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pipeline, st, err := rag.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	return tui.Run(tui.Config{
		App:      cfg,
		Pipeline: pipeline,
		Store:    st,
	})
}
