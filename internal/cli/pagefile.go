package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tbckr/statuspane/internal/appdir"
	"github.com/tbckr/statuspane/internal/page"
)

// defaultRegion is the region id used when --region is not given.
const defaultRegion = "messages"

// pageOptions are the flags shared by every command that writes into a page.
type pageOptions struct {
	Page    string
	Region  string
	Out     string
	InPlace bool
}

func (o *pageOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Page, "page", "p", "", "HTML page to update (default: a blank page with one region)")
	cmd.Flags().StringVarP(&o.Region, "region", "r", defaultRegion, "id of the element to write into")
	cmd.Flags().StringVar(&o.Out, "out", "", "write the updated page to this file instead of stdout")
	cmd.Flags().BoolVarP(&o.InPlace, "in-place", "i", false, "write the updated page back to --page")
	cmd.MarkFlagsMutuallyExclusive("out", "in-place")
	_ = cmd.MarkFlagFilename("page", "html", "htm")
	_ = cmd.MarkFlagFilename("out", "html", "htm")
}

func (o *pageOptions) validate() error {
	if o.InPlace && o.Page == "" {
		return fmt.Errorf("--in-place requires --page")
	}
	if o.Region == "" {
		return fmt.Errorf("--region must not be empty")
	}
	return nil
}

// load parses --page, or builds a blank page holding only --region.
func (o *pageOptions) load() (*page.Document, error) {
	if o.Page == "" {
		return page.Skeleton(o.Region), nil
	}
	f, err := os.Open(o.Page)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only
	return page.Parse(f)
}

// write renders doc to --out, back to --page with --in-place, or to stdout.
func (o *pageOptions) write(cmd *cobra.Command, doc *page.Document) error {
	target := o.Out
	if o.InPlace {
		target = o.Page
	}
	if target == "" {
		return doc.Render(cmd.OutOrStdout())
	}
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return appdir.WriteFile(target, buf.Bytes(), 0o644)
}
