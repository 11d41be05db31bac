package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"blockdebug/internal/assemble"
	"blockdebug/internal/blocker"
	"blockdebug/internal/domain"
	"blockdebug/internal/ingest"
)

func newRunCmd() *cobra.Command {
	var (
		ltablePath     string
		rtablePath     string
		lkey           string
		rkey           string
		k              int
		correspondence string
		workers        int
		output         string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the blocking debugger once against two CSV table sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ltable, err := (ingest.CSVSource{Path: ltablePath, Key: lkey}).Load()
			if err != nil {
				return fmt.Errorf("load ltable: %w", err)
			}
			rtable, err := (ingest.CSVSource{Path: rtablePath, Key: rkey}).Load()
			if err != nil {
				return fmt.Errorf("load rtable: %w", err)
			}

			var corres domain.Correspondence
			if correspondence != "" {
				corres, err = ingest.LoadCorrespondenceFile(correspondence)
				if err != nil {
					return fmt.Errorf("load correspondence: %w", err)
				}
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

			result, err := blocker.DebugBlock(context.Background(), ltable, rtable, nil, blocker.Options{
				Correspondence:        corres,
				DefaultCorrespondence: ingest.DefaultCorrespondence,
				K:                     k,
				Parallel:              workers,
				Logger:                logger,
			})
			if err != nil {
				return fmt.Errorf("debug block: %w", err)
			}

			rows := assemble.Assemble(result.Pairs, ltable, rtable)
			flat := assemble.Flatten(rows, "l_", "r_")

			if output == "json" {
				return printJSON(cmd.OutOrStdout(), flat)
			}

			header := []string{"rank", "similarity", "l_" + ltable.Key, "r_" + rtable.Key}
			tableRows := make([][]string, len(rows))
			for i, r := range rows {
				tableRows[i] = []string{
					strconv.Itoa(r.Rank),
					strconv.FormatFloat(r.Similarity, 'f', 4, 64),
					fmt.Sprintf("%v", r.LeftKey),
					fmt.Sprintf("%v", r.RightKey),
				}
			}
			printTable(cmd.OutOrStdout(), header, tableRows)
			return nil
		},
	}

	cmd.Flags().StringVar(&ltablePath, "ltable", "", "path to the left table CSV (required)")
	cmd.Flags().StringVar(&rtablePath, "rtable", "", "path to the right table CSV (required)")
	cmd.Flags().StringVar(&lkey, "lkey", "id", "left table key column")
	cmd.Flags().StringVar(&rkey, "rkey", "id", "right table key column")
	cmd.Flags().IntVar(&k, "k", 20, "number of top pairs to return")
	cmd.Flags().StringVar(&correspondence, "correspondence", "", "optional YAML attribute correspondence file")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel join workers (1 runs the sequential join)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")

	_ = cmd.MarkFlagRequired("ltable")
	_ = cmd.MarkFlagRequired("rtable")

	return cmd
}
