package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type printer func(result *model.PublishResult) error

func newPrinter(format string, w io.Writer) (printer, error) {
	switch format {
	case outputText, "":
		return func(result *model.PublishResult) error {
			return printText(w, result)
		}, nil
	case outputJSON:
		return func(result *model.PublishResult) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}, nil
	default:
		return nil, goerr.New("invalid output format", goerr.V("format", format))
	}
}

func printText(w io.Writer, result *model.PublishResult) error {
	title := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)

	rel := result.Release
	if _, err := title.Fprintf(w, "Published %s", rel.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, " (tag %s, id %d)\n", rel.TagName, rel.ID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %s\n", rel.HTMLURL); err != nil {
		return err
	}

	if len(result.Assets) == 0 {
		_, err := faint.Fprintln(w, "  no assets uploaded")
		return err
	}

	for _, asset := range result.Assets {
		if _, err := fmt.Fprintf(w, "  - %s ", asset.Name); err != nil {
			return err
		}
		if _, err := faint.Fprintf(w, "(%d bytes, %s)\n", asset.Size, asset.ContentType); err != nil {
			return err
		}
	}
	return nil
}
