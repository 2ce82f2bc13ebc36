package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdmichaud/rdicom/pkg/dicom"
	"github.com/jdmichaud/rdicom/pkg/dicomweb"
)

// NewDcm2JSONCmd converts a DICOM file to its DICOM-JSON representation.
func NewDcm2JSONCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dcm2json <file>",
		Short: "convert a DICOM file to DICOM-JSON (PS3.18)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dicom.ReadFile(args[0])
			if err != nil {
				return err
			}
			obj, err := dicomweb.EncodeJSON(ds, dicomweb.Options{})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(obj)
		},
	}
	cmd.Flags().Bool("pretty", false, "indent the output")
	return cmd
}

// NewDcm2XMLCmd converts a DICOM file to the Native DICOM Model XML.
func NewDcm2XMLCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "dcm2xml <file>",
		Short: "convert a DICOM file to Native DICOM Model XML (PS3.19)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dicom.ReadFile(args[0])
			if err != nil {
				return err
			}
			body, err := dicomweb.MarshalXML(ds, dicomweb.Options{})
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(body, '\n'))
			return err
		},
	}
}

// NewJSON2DcmCmd converts a DICOM-JSON document back to a Part 10 file.
func NewJSON2DcmCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "json2dcm <json-file> <dcm-file>",
		Short: "encode a DICOM-JSON document as a Part 10 file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ds, err := dicomweb.UnmarshalJSON(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}
			if _, err := dicom.WriteFile(args[1], ds); err != nil {
				return err
			}
			return nil
		},
	}
}
