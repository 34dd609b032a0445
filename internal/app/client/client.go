package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"flagexpiry/internal/app/client/config"
	"flagexpiry/internal/domain/flags"
)

// App - клиент простановки дат истечения флагов. Один экземпляр
// обслуживает один логический прогон, фонового состояния между
// прогонами нет.
type App struct {
	config     *config.Config
	log        *slog.Logger
	api        *httpClient
	enumerator *Enumerator
	processor  *Processor
	history    *HistoryStore
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	exec := NewExecutor(ExecutorConfig{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   time.Duration(cfg.BaseDelayMs) * time.Millisecond,
	}, log)

	api := newHTTPClient(cfg, exec, log)

	enumerator := NewEnumerator(api, EnumeratorConfig{
		PageSize:  cfg.PageSize,
		PageDelay: time.Duration(cfg.PageDelayMs) * time.Millisecond,
	}, log)

	processor := NewProcessor(api, ProcessorConfig{
		PropertyName: cfg.PropertyName,
		DaysOffset:   cfg.DaysOffset,
		DateFormat:   cfg.DateFormat,
		BatchSize:    cfg.BatchSize,
		BatchDelay:   time.Duration(cfg.BatchDelayMs) * time.Millisecond,
	}, log)

	app := &App{
		config:     cfg,
		log:        log,
		api:        api,
		enumerator: enumerator,
		processor:  processor,
	}

	// Журнал прогонов опционален: без HISTORY_PATH ничего не пишем
	if cfg.HistoryPath != "" {
		history, err := NewHistoryStore(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации журнала прогонов: %w", err)
		}
		app.history = history
	}

	return app, nil
}

// Run выполняет полный прогон: валидация конфигурации, выгрузка,
// фильтрация, запись дат истечения, агрегация. Результат возвращается
// всегда, даже если прогон упал на выгрузке.
func (a *App) Run(ctx context.Context) (*flags.RunResult, error) {
	result := &flags.RunResult{
		Updated:   []flags.UpdatedItem{},
		Failed:    []flags.FailedItem{},
		Skipped:   []flags.SkippedItem{},
		StartTime: time.Now(),
	}

	// Предусловие: конфигурация проверяется до любого сетевого вызова
	if err := a.config.Validate(); err != nil {
		result.Finalize(true)
		return result, err
	}

	a.log.Info("Начало прогона",
		"project", a.config.ProjectKey,
		"property", a.config.PropertyName,
		"days_offset", a.config.DaysOffset,
	)

	records, err := a.enumerator.FetchAll(ctx)
	if err != nil {
		// Ошибка выгрузки фатальна: частичная коллекция дала бы
		// неверную картину пропусков
		result.Finalize(true)
		a.saveHistory(result)
		return result, fmt.Errorf("прогон прерван: %w", err)
	}

	result.TotalFound = len(records)

	part := PartitionFlags(records, a.config.PropertyName, a.config.SkipExisting)
	result.Skipped = append(result.Skipped, part.Skipped...)

	a.log.Info("Флаги отфильтрованы",
		"total", result.TotalFound,
		"to_process", len(part.ToProcess),
		"skipped", len(part.Skipped),
	)

	if len(part.ToProcess) > 0 {
		processed := a.processor.Process(ctx, part.ToProcess)
		result.Updated = append(result.Updated, processed.Updated...)
		result.Failed = append(result.Failed, processed.Failed...)
		result.TotalProcessed = processed.TotalProcessed
	}

	result.Finalize(false)
	a.saveHistory(result)

	a.log.Info("Прогон завершен",
		"updated", len(result.Updated),
		"failed", len(result.Failed),
		"skipped", len(result.Skipped),
		"duration", result.Duration.Round(time.Millisecond),
	)

	return result, nil
}

// Check выполняет пробный прогон без записи: выгрузка и фильтрация
func (a *App) Check(ctx context.Context) (*Partition, int, error) {
	if err := a.config.Validate(); err != nil {
		return nil, 0, err
	}

	records, err := a.enumerator.FetchAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выгрузки флагов: %w", err)
	}

	part := PartitionFlags(records, a.config.PropertyName, a.config.SkipExisting)
	return &part, len(records), nil
}

// GetFlag возвращает один флаг по ключу, nil если флага нет
func (a *App) GetFlag(ctx context.Context, key string) (*flags.FlagRecord, error) {
	return a.api.GetFlag(ctx, key)
}

// History возвращает журнал прогонов, nil если журнал не настроен
func (a *App) History() *HistoryStore {
	return a.history
}

// Close освобождает ресурсы приложения
func (a *App) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

func (a *App) saveHistory(result *flags.RunResult) {
	if a.history == nil {
		return
	}
	if _, err := a.history.SaveRun(result); err != nil {
		a.log.Warn("Не удалось сохранить прогон в журнал", "error", err)
	}
}
