package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studybuddy",
	Short: "Terminal client for a retrieval-augmented study service",
	Long: "StudyBuddy talks to a document question-answering service: ask questions\n" +
		"about your notes, generate quizzes, upload documents and watch the\n" +
		"service status. Run without a subcommand to open the dashboard.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "Path to YAML config file (default: user config dir/studybuddy/config.yaml)")
	f.String("server", "", "Study service base URL (overrides STUDYBUDDY_SERVER_URL)")
	f.String("backend", "", "Backend to use: http or direct")
	f.String("journal", "", "Path to the SQLite journal (default: in memory)")
	f.String("log-level", "", "Log level: trace, debug, info, warn or error")
	f.String("log-file", "", "Append logs to this file")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
