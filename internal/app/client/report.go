package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"

	"flagexpiry/internal/domain/flags"
)

// PrintSummary печатает человекочитаемый итог прогона
func PrintSummary(result *flags.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Println()
	fmt.Println("=== Итоги прогона ===")
	fmt.Printf("Найдено флагов:   %d\n", result.TotalFound)
	fmt.Printf("Обработано:       %d\n", result.TotalProcessed)
	fmt.Printf("Обновлено:        %s\n", green(len(result.Updated)))
	fmt.Printf("Ошибок:           %s\n", red(len(result.Failed)))
	fmt.Printf("Пропущено:        %s\n", yellow(len(result.Skipped)))
	fmt.Printf("Время выполнения: %v\n", result.Duration.Round(time.Millisecond))
	fmt.Println()

	for _, item := range result.Updated {
		fmt.Printf("  %s %s -> %s\n", green("✓"), item.Key, item.ExpiryDate)
	}
	for _, item := range result.Failed {
		fmt.Printf("  %s %s: %s\n", red("✗"), item.Key, item.Error)
	}
	for _, item := range result.Skipped {
		line := fmt.Sprintf("  %s %s: %s", yellow("-"), item.Key, item.Reason)
		if item.ExistingValue != "" {
			line += fmt.Sprintf(" (%s)", item.ExistingValue)
		}
		fmt.Println(line)
	}

	fmt.Println()
	if result.Success {
		fmt.Println(green("✅ Прогон завершен успешно"))
	} else {
		fmt.Println(red("❌ Прогон завершен с ошибками"))
	}
}

// PrintJSON печатает результат прогона в машиночитаемом виде
func PrintJSON(result *flags.RunResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
