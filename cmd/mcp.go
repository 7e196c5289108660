package cmd

import (
	"context"
	"fmt"
	"strings"

	"hragent/internal/rag"
	"hragent/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Inicia um servidor MCP expondo busca e resposta sobre as políticas",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pipeline, st, err := rag.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// The index must be usable before serving tools.
	if _, err := pipeline.Initialize(cmd.Context(), false); err != nil {
		return err
	}

	s := mcpserver.NewMCPServer("hragent", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(searchPoliciesTool(), makeSearchHandler(pipeline))
	s.AddTool(askPoliciesTool(), makeAskHandler(pipeline))

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func searchPoliciesTool() mcp.Tool {
	return mcp.NewTool("search_policies",
		mcp.WithDescription("Busca semântica nos documentos de políticas internas de RH. Retorna os trechos mais próximos com documento de origem, página e categoria."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Pergunta ou termos de busca em linguagem natural"),
		),
		mcp.WithNumber("k",
			mcp.Description("Número máximo de trechos a retornar (default 8)"),
		),
	)
}

func askPoliciesTool() mcp.Tool {
	return mcp.NewTool("ask_policies",
		mcp.WithDescription("Responde uma pergunta sobre as políticas internas de RH, fundamentada nos trechos recuperados dos documentos. Executa o fluxo completo: busca, reordenação por relevância e síntese."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Pergunta em linguagem natural sobre férias, home office, código de conduta etc."),
		),
	)
}

// --- Handler factories ---

func makeSearchHandler(pipeline *rag.Pipeline) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		k := req.GetInt("k", 8)
		if k <= 0 {
			k = 8
		}

		results, err := pipeline.Search(ctx, query, k)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		return mcp.NewToolResultText(formatSearchResults(query, results)), nil
	}
}

func makeAskHandler(pipeline *rag.Pipeline) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question := req.GetString("question", "")
		if question == "" {
			return mcp.NewToolResultError("question is required"), nil
		}

		result, err := pipeline.Answer(ctx, question)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("answer failed: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(result.Answer)
		if len(result.Sources) > 0 {
			sb.WriteString("\n\n---\nFontes:\n")
			for i, src := range result.Sources {
				fmt.Fprintf(&sb, "%d. %s (página %d, categoria: %s)\n", i+1, src.Source, src.Page, src.Category)
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- Formatting helpers ---

func formatSearchResults(query string, results []store.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("Nenhum trecho encontrado para: %q", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Resultados para %q (%d trechos)\n\n", query, len(results))

	for i, r := range results {
		fmt.Fprintf(&sb, "### Trecho %d: `%s`\n\n", i+1, r.Chunk.Source)
		fmt.Fprintf(&sb, "**Página:** %d  \n**Categoria:** %s  \n**Distância:** %.4f\n\n",
			r.Chunk.Page, r.Chunk.Category, r.Distance)
		fmt.Fprintf(&sb, "%s\n\n", r.Chunk.Text)
	}

	return sb.String()
}
