package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	inkwell "github.com/kailas-cloud/inkwell/pkg/sdk"
)

var outlineFlags struct {
	format  string
	tocOnly bool
	post    bool
}

var outlineCmd = &cobra.Command{
	Use:   "outline <file|slug>",
	Short: "Assign heading anchors and print the outline as JSON",
	Example: `  inkwell outline draft.md
  inkwell outline page.html --toc
  inkwell outline hello-world --post`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	f := outlineCmd.Flags()
	f.StringVarP(&outlineFlags.format, "format", "f", "", "html, markdown or json (default: by file extension)")
	f.BoolVar(&outlineFlags.tocOnly, "toc", false, "print only the table of contents HTML")
	f.BoolVar(&outlineFlags.post, "post", false, "treat the argument as the slug of a stored post")
}

func runOutline(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	var res inkwell.OutlineResult
	if outlineFlags.post {
		res, err = client.Outline().ForPost(ctx, args[0])
	} else {
		var data []byte
		data, err = os.ReadFile(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		res, err = client.Outline().Prepare(formatFor(args[0], outlineFlags.format), string(data))
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outlineFlags.tocOnly {
		fmt.Fprintln(out, res.TOC)
		return nil
	}
	return writeJSON(out, res)
}

// formatFor picks the explicit format or guesses from the file extension.
func formatFor(path, explicit string) inkwell.Format {
	if explicit != "" {
		return inkwell.Format(strings.ToLower(explicit))
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return inkwell.FormatMarkdown
	case ".json":
		return inkwell.FormatEditor
	}
	return inkwell.FormatHTML
}
