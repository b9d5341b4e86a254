package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/aspect-rdf/rdf"
)

func encodeCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "encode <document>",
		Short: "Encode a model document as RDF",
		Long: `Encode builds the model document and the documents selected with
--external, encodes the document into the statement store and writes the
statements in the configured format.

Elements defined by external documents are referenced, not written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup()
			if err != nil {
				return err
			}
			if flags.format == "" {
				if format, ok := rdf.FormatFromPath(output); ok {
					cfg.Output.Format = string(format)
				}
			}
			p, err := newPipeline(cfg, logger, nil)
			if err != nil {
				return err
			}
			defer p.Close()

			_, err = encodeTo(p, args[0], output, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout); its extension selects the format unless --format is set")
	return cmd
}

// encodeTo runs the pipeline and writes to the output file, or to stdout when
// output is empty or "-". The file is only replaced after a successful run.
func encodeTo(p *pipeline, document, output string, stdout io.Writer) (*Summary, error) {
	if output == "" || output == "-" {
		return p.run(document, stdout)
	}
	var buf bytes.Buffer
	summary, err := p.run(document, &buf)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return summary, nil
}
