package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/saulfrancisco-ruizacevedo/go-peraturan"
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "ingest <documents.json>...",
		Short: "Write parsed regulation documents into the graph",
		Long: `Reads JSON files holding one document or an array of documents with the
fields doc_law_number, doc_number, doc_title, doc_year, doc_type, doc_status
and topics, and merges them into the graph.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, closeRunner := openRunner(ctx, cfg, logger)
			defer closeRunner()
			gm := newManager(runner, cfg)

			var failed int
			for _, path := range args {
				docs, err := readDocuments(path)
				if err != nil {
					return err
				}
				for _, doc := range docs {
					if err := gm.Ingest(ctx, doc); err != nil {
						failed++
						logger.Error("Failed to ingest document", "file", path, "law_number", doc.LawNumber, "error", err)
						if !keepGoing {
							return err
						}
						continue
					}
					logger.Info("Ingested document", "law_number", doc.LawNumber, "topics", len(doc.Topics))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d documents failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue after a document fails")
	return cmd
}

// readDocuments accepts a single document object or an array of them.
func readDocuments(path string) ([]peraturan.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var docs []peraturan.Document
	if err := json.Unmarshal(data, &docs); err == nil {
		return docs, nil
	}
	var doc peraturan.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return []peraturan.Document{doc}, nil
}
