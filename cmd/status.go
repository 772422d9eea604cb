package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show study service status and document counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		snap := s.ctrl.RefreshStatus(cmd.Context())
		if format != formatText {
			return writeStructured(cmd.OutOrStdout(), format, snap)
		}
		printStatus(cmd, snap)
		return nil
	},
}

func init() {
	addFormatFlag(statusCmd)
}

func printStatus(cmd *cobra.Command, snap status.Snapshot) {
	printf(cmd, "API:         %s\n", snap.API)
	printf(cmd, "Documents:   %d\n", snap.PermanentDocCount)
	if !snap.TempStore.Active {
		printf(cmd, "Temp store:  empty\n")
		return
	}
	name := "(unnamed)"
	if snap.TempStore.DocumentName != nil {
		name = *snap.TempStore.DocumentName
	}
	printf(cmd, "Temp store:  %s (%d chunks)\n", name, snap.TempStore.ChunkCount)
}
