package history

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"flagexpiry/cmd/flagexpiry/cmd/types"
	"flagexpiry/internal/app/client"
)

var (
	limit int
	runID string
)

var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Журнал прогонов",
	Long: `Просмотр локального журнала прогонов. Журнал ведется только если
задан путь к базе (HISTORY_PATH или флаг --history).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		defer app.Close()

		store := app.History()
		if store == nil {
			return fmt.Errorf("журнал прогонов не настроен: задайте HISTORY_PATH или --history")
		}

		if runID != "" {
			return showRun(store)
		}

		runs, err := store.ListRuns(limit)
		if err != nil {
			return fmt.Errorf("ошибка чтения журнала: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("Журнал пуст")
			return nil
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			data, err := json.MarshalIndent(runs, "", "  ")
			if err != nil {
				return fmt.Errorf("ошибка сериализации: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tДАТА\tНАЙДЕНО\tОБНОВЛЕНО\tОШИБОК\tПРОПУЩЕНО\tСТАТУС")
		for _, run := range runs {
			status := "ok"
			if !run.Success {
				status = "failed"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				run.ID, run.StartedAt.Format("2006-01-02 15:04:05"),
				run.TotalFound, run.Updated, run.Failed, run.Skipped, status)
		}
		return w.Flush()
	},
}

func showRun(store *client.HistoryStore) error {
	result, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	return client.PrintJSON(result)
}

func init() {
	HistoryCmd.Flags().IntVar(&limit, "limit", 10, "количество прогонов")
	HistoryCmd.Flags().StringVar(&runID, "id", "", "показать полный результат прогона")
}
