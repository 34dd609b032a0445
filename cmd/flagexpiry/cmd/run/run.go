package run

import (
	"fmt"

	"github.com/spf13/cobra"

	"flagexpiry/cmd/flagexpiry/cmd/types"
	"flagexpiry/internal/app/client"
)

var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Выполнить прогон простановки дат истечения",
	Long: `Полный прогон: выгрузка всех флагов проекта, отбор флагов без
даты истечения, вычисление и запись даты через PATCH.

Ошибки отдельных флагов не прерывают прогон: итог всегда содержит
полный отчет по обновленным, пропущенным и ошибочным флагам.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		defer app.Close()

		result, err := app.Run(cmd.Context())
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			if err := client.PrintJSON(result); err != nil {
				return err
			}
		} else {
			client.PrintSummary(result)
		}

		// Частичные ошибки записи помечают прогон как неуспешный,
		// но только после полного отчета
		if !result.Success {
			return fmt.Errorf("прогон завершен с ошибками: %d из %d флагов не обновлены",
				len(result.Failed), result.TotalProcessed)
		}

		return nil
	},
}
