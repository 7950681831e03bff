package main

import (
	"fmt"
	"os"

	"github.com/justsurfingit/talent-crm/internal/extractor"
	"github.com/justsurfingit/talent-crm/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	var (
		minChars     int
		maxBytes     int
		verbose      bool
		showStrategy bool
	)

	cmd := &cobra.Command{
		Use:   "resumetext FILE...",
		Short: "Extract plain text from PDF resumes",
		Long: `Extract plain text from one or more PDF files.

The structured PDF parser is tried first; malformed files fall back to
scraping content streams and finally to readable ASCII.

Examples:
  resumetext cv.pdf
  resumetext --strategy --min-chars 50 a.pdf b.pdf
`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zap.NewNop()
			if verbose {
				l, err := logger.New("debug", "development")
				if err != nil {
					return err
				}
				defer l.Sync()
				log = l
			}

			ext := extractor.New(log,
				extractor.WithMinTextLength(minChars),
				extractor.WithMaxInputBytes(maxBytes),
			)

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
					continue
				}
				res, err := ext.ExtractResult(cmd.Context(), data)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
					continue
				}
				if len(args) > 1 || showStrategy {
					header := path
					if showStrategy {
						header += " (" + res.Strategy + ")"
					}
					fmt.Fprintf(out, "=== %s ===\n", header)
				}
				fmt.Fprintln(out, res.Text)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&minChars, "min-chars", extractor.MinTextLength, "Minimum characters a fallback strategy must recover")
	cmd.Flags().IntVar(&maxBytes, "max-bytes", extractor.DefaultMaxInputBytes, "Reject files larger than this many bytes")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each strategy attempt")
	cmd.Flags().BoolVar(&showStrategy, "strategy", false, "Print which strategy produced the text")
	return cmd
}
