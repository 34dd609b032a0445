// cmd/flagexpiry/cmd/init.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flagexpiry/cmd/flagexpiry/cmd/check"
	"flagexpiry/cmd/flagexpiry/cmd/history"
	"flagexpiry/cmd/flagexpiry/cmd/run"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Версия приложения",
	// Для version приложение не нужно, конфигурация не загружается
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(*cobra.Command, []string) {
		fmt.Printf("flagexpiry %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(run.RunCmd)
	rootCmd.AddCommand(check.CheckCmd)
	rootCmd.AddCommand(history.HistoryCmd)
	rootCmd.AddCommand(versionCmd)
}
