// Command linqsamples lists and runs the query samples and answers ad-hoc
// queries over the data set.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "linqsamples",
		Short:         "Lazy query pipeline samples over a Northwind-style data set",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&o.configFile, "config", "c", "", "config file (default: linqsamples config.yml discovery)")
	flags.StringVarP(&o.format, "format", "f", "", "output format: text or json")
	flags.StringVar(&o.dataPath, "data", "", "JSON data set to load instead of the embedded one")

	root.AddCommand(
		newListCmd(o),
		newDescribeCmd(o),
		newRunCmd(o),
		newQueryCmd(o),
		newVersionCmd(o),
	)
	return root
}
