// cmd/flagexpiry/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slog"
	"golang.org/x/term"

	"flagexpiry/cmd/flagexpiry/cmd/types"
	"flagexpiry/internal/app/client"
	"flagexpiry/internal/app/client/config"
	"flagexpiry/internal/utils/logger"

	"github.com/spf13/cobra"
)

var (
	cfg         *config.Config
	log         *slog.Logger
	app         *client.App
	jsonOutput  bool
	apiURL      string
	projectKey  string
	historyPath string
)

var rootCmd = &cobra.Command{
	Use:   "flagexpiry",
	Short: "FlagExpiry - проставление дат истечения feature-флагам",
	Long: `FlagExpiry находит feature-флаги без custom property с датой истечения
и дописывает ее через API сервиса флагов.

Дата истечения вычисляется как дата создания флага плюс настраиваемое
смещение в днях. Инструмент уважает rate limit сервиса: постраничная
выгрузка и батчевая запись выполняются с задержками и ретраями.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	// Загружаем конфигурацию
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if apiURL != "" {
		cfg.APIBaseURL = strings.TrimRight(apiURL, "/")
	}
	if projectKey != "" {
		cfg.ProjectKey = projectKey
	}
	if historyPath != "" {
		cfg.HistoryPath = historyPath
	}

	// Токен можно ввести интерактивно, если он не задан в окружении
	if cfg.APIToken == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print("API-токен: ")
		token, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения токена: %w", err)
		}
		fmt.Println()
		cfg.APIToken = strings.TrimSpace(string(token))
	}

	// Конфигурация проверяется до любых сетевых вызовов
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Настраиваем логгер
	log = logger.New(cfg.Env)

	// Создаем приложение
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	// Кладем приложение в контекст для подкоманд
	ctx := context.WithValue(cmd.Context(), types.ClientAppKey, app)
	cmd.SetContext(ctx)

	return nil
}

func init() {
	cobra.OnInitialize()

	// Глобальные флаги
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "адрес API сервиса флагов")
	rootCmd.PersistentFlags().StringVar(&projectKey, "project", "", "ключ проекта")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "путь к журналу прогонов (SQLite)")

	// Команды добавляются в init() соответствующих файлов
}
