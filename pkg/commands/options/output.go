package options

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/catime/pkg/printers"
)

// OutputOptions selects text, json or yaml output. Errors are printed as
// json when the output is json.
type OutputOptions struct {
	base.OutputOptions
	Output string
}

func AddOutputArg(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "",
		`Output format. One of "text", "json" or "yaml".`)
}

// Format parses the --output flag.
func (o *OutputOptions) Format() (printers.Format, error) {
	f, err := printers.ParseFormat(o.Output)
	if err != nil {
		return printers.FormatText, err
	}
	o.JSON = f == printers.FormatJSON
	return f, nil
}
