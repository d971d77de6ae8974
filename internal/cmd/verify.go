package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/factlens/factlens/internal/config"
	"github.com/factlens/factlens/internal/core"
	"github.com/factlens/factlens/internal/core/submit"
	"github.com/factlens/factlens/internal/core/verify"
	"github.com/factlens/factlens/internal/output"
)

var (
	verifyFile   string
	verifyType   string
	verifyNoWait bool
	verifyWait   time.Duration
	verifyOutput string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [text]",
	Short: "Submit content for verification",
	Long: `Submit a text claim or a media file for verification and print the result.

Text is verified against the built-in claim corpus; media files are validated
and recorded for manual review.

Examples:
  factlens verify "Drinking lemon water cures cancer"
  factlens verify --file screenshot.png
  factlens verify "5G towers spread viruses" --output json
  factlens verify "..." --no-wait`,
	Args: cobra.ArbitraryArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyFile, "file", "f", "", "media file to verify instead of text")
	verifyCmd.Flags().StringVarP(&verifyType, "type", "t", "", "declared content type: text, image, video, audio (default inferred)")
	verifyCmd.Flags().BoolVar(&verifyNoWait, "no-wait", false, "print the request id without waiting for the result")
	verifyCmd.Flags().DurationVar(&verifyWait, "timeout", 0, "how long to wait for the result (default from config)")
	verifyCmd.Flags().StringVarP(&verifyOutput, "output", "o", "table", "output format: table, json, markdown, text")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" && verifyFile == "" {
		return fmt.Errorf("provide text to verify or --file")
	}

	copyFormat := strings.EqualFold(strings.TrimSpace(verifyOutput), "text")
	var format output.Format
	if !copyFormat {
		var err error
		format, err = output.ParseFormat(verifyOutput)
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	analyzer, err := verify.NewHeuristicAnalyzer()
	if err != nil {
		return err
	}

	pipeline := verify.NewPipeline(db, analyzer, verify.NewAnnotator(cfg.Provenance, db), cfg.Pipeline, 1)
	pipeline.Start()
	defer func() { _ = pipeline.Stop(ctx) }()

	client := submit.NewClient(db, pipeline)

	declared := core.ContentType(strings.ToLower(strings.TrimSpace(verifyType)))

	sub := submit.Submission{ContentType: declared, Text: text}
	if verifyFile != "" {
		data, err := os.ReadFile(verifyFile)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		sub = submit.Submission{ContentType: declared, File: &submit.FileUpload{Name: verifyFile, Data: data}}
	}

	req, err := client.Submit(ctx, sub)
	if err != nil {
		return err
	}

	if sub.File != nil {
		preview, err := submit.NewPreview(req.ContentType, sub.File)
		if err != nil {
			return fmt.Errorf("build preview: %w", err)
		}
		defer func() { _ = preview.Close() }()
		fmt.Printf("Attached %s (%s)\n", preview.FileName, humanize.Bytes(uint64(preview.Size)))
	}

	if verifyNoWait {
		fmt.Println(req.ID)
		return nil
	}

	result, err := pipeline.Await(ctx, req.ID, verifyWait)
	if err != nil {
		return err
	}

	if copyFormat {
		fmt.Println(output.CopyText(result))
		return nil
	}

	rendered, err := output.NewFormatter(format).FormatResult(result)
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}
