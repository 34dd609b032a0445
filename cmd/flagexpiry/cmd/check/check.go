package check

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"flagexpiry/cmd/flagexpiry/cmd/types"
	"flagexpiry/internal/app/client"
)

var flagKey string

var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Пробный прогон без записи",
	Long: `Выгружает флаги и показывает, какие были бы обновлены, без единого
PATCH-запроса. С флагом --key выводит один флаг по ключу.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		defer app.Close()

		if flagKey != "" {
			return checkSingleFlag(cmd, app)
		}

		part, total, err := app.Check(cmd.Context())
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(part, "", "  ")
			if err != nil {
				return fmt.Errorf("ошибка сериализации: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Найдено флагов: %d\n", total)
		fmt.Printf("Будут обновлены: %s\n", cyan(len(part.ToProcess)))
		fmt.Printf("Будут пропущены: %s\n\n", yellow(len(part.Skipped)))

		for _, rec := range part.ToProcess {
			fmt.Printf("  %s %s\n", cyan("→"), rec.Key)
		}
		for _, item := range part.Skipped {
			fmt.Printf("  %s %s: %s\n", yellow("-"), item.Key, item.Reason)
		}

		return nil
	},
}

func checkSingleFlag(cmd *cobra.Command, app *client.App) error {
	flag, err := app.GetFlag(cmd.Context(), flagKey)
	if err != nil {
		return fmt.Errorf("ошибка получения флага: %w", err)
	}
	if flag == nil {
		fmt.Printf("Флаг %q не найден\n", flagKey)
		return nil
	}

	data, err := json.MarshalIndent(flag, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}
	fmt.Println(string(data))

	return nil
}

func init() {
	CheckCmd.Flags().StringVar(&flagKey, "key", "", "показать один флаг по ключу")
}
