package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/preview"
)

var (
	templateID string
	outPath    string
	chromePath string
	timeout    time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a document as HTML or PDF",
}

var renderHTMLCmd = &cobra.Command{
	Use:   "html <file|->",
	Short: "Write the printable preview page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}
		html, err := preview.RenderHTML(preview.Project(d), templateID)
		if err != nil {
			return errors.Wrap(err, "render preview")
		}
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(html)
			return err
		}
		return errors.Wrapf(os.WriteFile(outPath, html, 0o644), "write %s", outPath)
	},
}

var renderPDFCmd = &cobra.Command{
	Use:   "pdf <file|->",
	Short: "Export the document to PDF with headless Chrome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}
		opts := export.DefaultOptions()
		opts.ChromePath = chromePath
		opts.Timeout = timeout

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a, err := export.NewExporter(export.NewChromeRenderer(opts)).Export(ctx, export.Request{Doc: d, Template: templateID})
		if err != nil {
			return errors.Wrap(err, "export pdf")
		}

		dest := outPath
		if dest == "" {
			dest = a.FileName
		} else if info, err := os.Stat(dest); err == nil && info.IsDir() {
			dest = filepath.Join(dest, a.FileName)
		}
		if err := os.WriteFile(dest, a.PDF, 0o644); err != nil {
			return errors.Wrapf(err, "write %s", dest)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pages)\n", dest, a.Pages)
		return nil
	},
}

func init() {
	renderCmd.PersistentFlags().StringVarP(&templateID, "template", "t", preview.DefaultTemplate, "Preview template id")
	renderCmd.PersistentFlags().StringVarP(&outPath, "output", "o", "", "Output file or directory")
	renderPDFCmd.Flags().StringVar(&chromePath, "chrome", os.Getenv("CHROME_PATH"), "Chrome executable (default: auto-detect)")
	renderPDFCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Export timeout")
	renderCmd.AddCommand(renderHTMLCmd, renderPDFCmd)
}
