package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jdmichaud/rdicom/pkg/dicom"
)

// NewDumpCmd prints a dcmdump-style listing of a file.
func NewDumpCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "print the attributes of a DICOM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dicom.ReadFile(args[0])
			if err != nil {
				return err
			}
			if ds.Raw {
				fmt.Println("# no Part 10 header, decoded as a raw dataset")
			}
			fmt.Printf("# transfer syntax: %s (%s)\n", ds.TransferSyntax, ds.TransferSyntax.Name())
			fmt.Print(ds)
			return nil
		},
	}
	return cmd
}
