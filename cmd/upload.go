package cmd

import (
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Index a document, temporarily by default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		permanent, _ := cmd.Flags().GetBool("permanent")

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := s.ctrl.UploadFile(cmd.Context(), args[0], permanent)
		if err != nil {
			return userError(err)
		}
		if format != formatText {
			return writeStructured(cmd.OutOrStdout(), format, res)
		}

		where := "permanently"
		if res.Temporary {
			where = "temporarily"
		}
		printf(cmd, "%s indexed %s (%d chunks)\n", res.Filename, where, res.ChunksIndexed)
		if res.Message != "" {
			printf(cmd, "%s\n", res.Message)
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the temporary document store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		msg, err := s.ctrl.ClearTemp(cmd.Context())
		if err != nil {
			return userError(err)
		}
		printf(cmd, "%s\n", msg)
		return nil
	},
}

func init() {
	addFormatFlag(uploadCmd)
	uploadCmd.Flags().Bool("permanent", false, "Add the document to the permanent library")
}
