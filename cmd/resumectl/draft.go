package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/resumeforge/resumeforge/internal/resume"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect draft documents",
}

var validateCmd = &cobra.Command{
	Use:   "validate <file|->",
	Short: "Check a document against the schema and the save rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}
		if err := resume.Validate(d); err != nil {
			return errors.Wrap(err, "document cannot be saved")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %q (%d education, %d experience, %d projects, %d skills, %d languages)\n",
			d.PersonalInfo.FullName, len(d.Education), len(d.Experience), len(d.Projects), len(d.Skills), len(d.Languages))
		return nil
	},
}

func init() {
	draftCmd.AddCommand(validateCmd)
}

// readDocument loads and normalizes a document from a path, or stdin for "-".
func readDocument(cmd *cobra.Command, name string) (resume.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return resume.Document{}, errors.Wrapf(err, "open %s", name)
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return resume.Document{}, errors.Wrapf(err, "read %s", name)
	}
	d, err := resume.ParseJSON(raw)
	if err != nil {
		return resume.Document{}, errors.Wrapf(err, "parse %s", name)
	}
	return d, nil
}
