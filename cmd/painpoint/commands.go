package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/ingest"
	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/store"
)

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a batch of posts",
	Long: `Analyze a batch of posts and print the result as JSON.

Examples:
  painpoint analyze --input posts.json
  painpoint analyze --input posts.jsonl --persist
  painpoint analyze --input posts.json --model ./sentiment.model`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		persist, _ := cmd.Flags().GetBool("persist")
		modelFile, _ := cmd.Flags().GetString("model")
		if input == "" {
			return fmt.Errorf("--input is required")
		}

		docs, err := ingest.ReadDocumentsFile(input)
		if err != nil {
			return err
		}

		a, err := loadApp(cmd.Context(), modelFile)
		if err != nil {
			return err
		}
		defer a.Close()

		printStep("Analyzing %s posts", humanize.Comma(int64(len(docs))))
		result, err := a.analyzer.AnalyzeBatch(cmd.Context(), docs)
		if err != nil {
			return err
		}

		if persist {
			skipped, err := a.store.SaveBatch(cmd.Context(), docs, result)
			if err != nil {
				return fmt.Errorf("persisting results: %w", err)
			}
			if skipped > 0 {
				printWarning("%d pain points skipped", skipped)
			}
			printSuccess("Saved run %s", result.RunID)
		}

		for _, insight := range result.Insights {
			printStatus("Insight", "%s", insight)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	analyzeCmd.Flags().String("input", "", "posts file (JSON array or JSON Lines)")
	analyzeCmd.Flags().Bool("persist", false, "store documents, pain points and the run")
	analyzeCmd.Flags().String("model", "", "classifier file to use instead of the stored model")
	rootCmd.AddCommand(analyzeCmd)
}

// --- train ---

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the sentiment classifier",
	Long: `Train the sentiment classifier on labeled samples and store it.

Each sample is {"text": "...", "label": "positive|negative|neutral"}.

Examples:
  painpoint train --input labeled.jsonl
  painpoint train --input labeled.json --out ./sentiment.model`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		out, _ := cmd.Flags().GetString("out")
		if input == "" {
			return fmt.Errorf("--input is required")
		}

		samples, err := ingest.ReadSamplesFile(input)
		if err != nil {
			return err
		}

		a, err := loadApp(cmd.Context(), "")
		if err != nil {
			return err
		}
		defer a.Close()

		printStep("Training on %s samples", humanize.Comma(int64(len(samples))))
		metrics, err := a.classifier.Fit(samples)
		if err != nil {
			return err
		}

		blob, err := a.classifier.MarshalBinary()
		if err != nil {
			return err
		}
		artifact := store.Artifact{Name: a.cfg.Model.Name, Blob: blob, TrainedAt: metrics.TrainedAt}
		if err := a.store.SaveArtifact(cmd.Context(), artifact); err != nil {
			return err
		}
		if out != "" {
			if err := a.classifier.SaveFile(out); err != nil {
				return fmt.Errorf("writing model file: %w", err)
			}
			printSuccess("Wrote model to %s", out)
		}

		printSuccess("Trained %q (%s)", a.cfg.Model.Name, humanize.Bytes(uint64(len(blob))))
		printStatus("Accuracy", "%.3f", metrics.Accuracy)
		printStatus("Vocabulary", "%s terms", humanize.Comma(int64(metrics.VocabularySize)))
		return printJSON(cmd.OutOrStdout(), metrics)
	},
}

func init() {
	trainCmd.Flags().String("input", "", "labeled samples file (JSON array or JSON Lines)")
	trainCmd.Flags().String("out", "", "also write the model to this file")
	rootCmd.AddCommand(trainCmd)
}

// --- painpoints ---

var painpointsCmd = &cobra.Command{
	Use:   "painpoints",
	Short: "List stored pain points by severity",
	Long: `List stored pain points, most severe first.

Examples:
  painpoint painpoints --category critical
  painpoint painpoints --product Cursor --min-severity 0.2 --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		product, _ := cmd.Flags().GetString("product")
		minSeverity, _ := cmd.Flags().GetFloat64("min-severity")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		tier := painpoint.Tier(category)
		if category != "" && !tier.Valid() {
			return fmt.Errorf("unknown category %q (want critical, high, medium or low)", category)
		}

		a, err := loadApp(cmd.Context(), "")
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.store.ListPainPoints(cmd.Context(), store.PainPointFilter{
			Category:    tier,
			Product:     product,
			MinSeverity: minSeverity,
			Limit:       limit,
		})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), records)
		}
		if len(records) == 0 {
			printWarning("no pain points stored yet")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SEVERITY\tFREQUENCY\tAVG SENTIMENT\tNAME")
		for _, rec := range records {
			fmt.Fprintf(tw, "%.3f\t%d\t%+.3f\t%s\n", rec.Severity, rec.Frequency, rec.AvgSentiment, rec.Name)
		}
		return tw.Flush()
	},
}

func init() {
	painpointsCmd.Flags().String("category", "", "only this tier: critical, high, medium or low")
	painpointsCmd.Flags().String("product", "", "only pain points filed under this product")
	painpointsCmd.Flags().Float64("min-severity", 0, "minimum severity")
	painpointsCmd.Flags().Int("limit", 20, "maximum number of pain points (0 for all)")
	painpointsCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(painpointsCmd)
}
