// Command cli sweeps a directory of workbooks through the normalization
// pipeline and prints a summary of every table produced.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"sheetsense/adapters/classify/heuristic"
	"sheetsense/adapters/classify/llm"
	"sheetsense/internal/agent"
	"sheetsense/internal/config"
	"sheetsense/internal/normalize"
	"sheetsense/internal/registry"
	"sheetsense/internal/report"
	"sheetsense/ports"
)

func main() {
	dir := flag.String("dir", "", "directory containing workbooks to process")
	showReports := flag.Bool("reports", false, "print a lineage report per table")
	flag.Parse()

	// Optional; environment variables win over .env entries.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	workbookDir := *dir
	if workbookDir == "" {
		workbookDir = cfg.Paths.WorkbookDir
	}
	if workbookDir == "" {
		fmt.Fprintln(os.Stderr, "usage: cli -dir <workbook directory>")
		os.Exit(2)
	}

	classifier := buildClassifier(cfg)
	normalizer := normalize.NewNormalizer(classifier).WithSampleSize(cfg.Pipeline.SampleSize)
	reg := registry.New(nil)
	ag := agent.NewAgent(normalizer, reg)

	infos, err := ag.ProcessDirectory(context.Background(), workbookDir)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	fmt.Printf("Processed %d tables\n\n", len(infos))
	for _, info := range infos {
		fmt.Printf("%s: %d rows x %d columns\n", info.Name, info.RowCount, len(info.Columns))
		fmt.Printf("  columns: %s\n", strings.Join(info.Columns, ", "))
		for _, w := range info.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
		if *showReports {
			fmt.Println()
			fmt.Println(report.BuildMarkdown(info))
		}
	}
}

// buildClassifier returns the model-backed classifier when an API key is
// configured, the deterministic heuristic otherwise.
func buildClassifier(cfg *config.Config) ports.RowClassifier {
	if cfg.AI.OpenAIKey != "" {
		llmCfg := llm.DefaultConfig(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel)
		llmCfg.Temperature = cfg.AI.Temperature
		llmCfg.MaxTokens = cfg.AI.MaxTokens
		return llm.NewClassifier(llmCfg)
	}
	return heuristic.NewClassifier()
}
