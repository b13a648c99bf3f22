package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/input-output-hk/catalyst-forge-libs/s3report"
)

var (
	locateLong = templates.LongDesc(`
		Parse an s3:// location and print its canonical form, bucket and
		prefix. Exits non-zero when the location is rejected.`)

	locateExample = templates.Examples(`
		s3report locate s3://reports/nightly`)
)

// LocateOptions defines the options for the `locate` command.
type LocateOptions struct {
	Location string

	iooption.IOStreams
}

// NewLocateOptions provides an initialised LocateOptions instance.
func NewLocateOptions(streams iooption.IOStreams) *LocateOptions {
	return &LocateOptions{
		IOStreams: streams,
	}
}

// NewLocateCommand creates the `locate` command.
func NewLocateCommand(o *LocateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "locate [LOCATION]",
		DisableFlagsInUseLine: true,
		Short:                 "Validate an s3:// location",
		Long:                  locateLong,
		Example:               locateExample,
		Args:                  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Location = args[0]
			return o.Run()
		},
	}

	return cmd
}

// Run parses the location and prints it.
func (o *LocateOptions) Run() error {
	loc, err := s3report.ParseLocation(o.Location)
	if err != nil {
		return err
	}

	fmt.Fprintln(o.Out, loc.String())
	fmt.Fprintf(o.Out, "bucket: %s\n", loc.Bucket)
	fmt.Fprintf(o.Out, "prefix: %s\n", loc.Prefix)
	return nil
}
