package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"flagexpiry/internal/domain/flags"
	"flagexpiry/internal/utils/dateutil"
)

// ProcessorConfig - параметры батчевой записи
type ProcessorConfig struct {
	PropertyName string
	DaysOffset   int
	DateFormat   string
	BatchSize    int
	BatchDelay   time.Duration // пауза между батчами
}

// ProcessResult - фрагмент итогового результата, собранный процессором
type ProcessResult struct {
	Updated        []flags.UpdatedItem
	Failed         []flags.FailedItem
	TotalProcessed int
}

// Processor записывает дату истечения флагам батчами фиксированного
// размера. Внутри батча элементы обрабатываются конкурентно, следующий
// батч стартует только после полного завершения предыдущего и паузы.
// Ошибка одного элемента никогда не прерывает обработку остальных.
type Processor struct {
	api *httpClient
	log *slog.Logger
	cfg ProcessorConfig
}

func NewProcessor(api *httpClient, cfg ProcessorConfig, log *slog.Logger) *Processor {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 5
	}
	return &Processor{
		api: api,
		log: log,
		cfg: cfg,
	}
}

// outcome - результат обработки одного флага: ровно одно из двух полей
type outcome struct {
	updated *flags.UpdatedItem
	failed  *flags.FailedItem
}

// Process обрабатывает флаги батчами. Результаты собираются позиционно:
// порядок внутри батча совпадает с порядком входа независимо от того,
// какая горутина завершилась первой.
func (p *Processor) Process(ctx context.Context, toProcess []flags.FlagRecord) *ProcessResult {
	result := &ProcessResult{}

	for start := 0; start < len(toProcess); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(toProcess) {
			end = len(toProcess)
		}
		batch := toProcess[start:end]

		p.log.Debug("Обработка батча",
			"from", start,
			"to", end,
			"total", len(toProcess),
		)

		outcomes := make([]outcome, len(batch))
		var wg sync.WaitGroup
		for i := range batch {
			wg.Add(1)
			go func(i int, rec flags.FlagRecord) {
				defer wg.Done()
				outcomes[i] = p.processSingleItem(ctx, rec)
			}(i, batch[i])
		}
		wg.Wait()

		for _, o := range outcomes {
			switch {
			case o.updated != nil:
				result.Updated = append(result.Updated, *o.updated)
			case o.failed != nil:
				result.Failed = append(result.Failed, *o.failed)
			}
			result.TotalProcessed++
		}

		// Пауза между батчами, последний батч не ждет
		if end < len(toProcess) && p.cfg.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return result
			case <-time.After(p.cfg.BatchDelay):
			}
		}
	}

	return result
}

// processSingleItem вычисляет дату истечения и записывает ее во флаг.
// Операция патча - replace, если property уже содержит значение,
// иначе add: сервис трактует JSON-Patch строго.
func (p *Processor) processSingleItem(ctx context.Context, rec flags.FlagRecord) outcome {
	created, ok := rec.CreationTime()
	if !ok {
		// Фильтр такие флаги отсеивает, но защищаемся на случай
		// прямого вызова с невалидной записью
		return p.fail(rec, "invalid or missing creation date")
	}

	expiry := created.AddDate(0, 0, p.cfg.DaysOffset)
	expiryDate := dateutil.FormatDate(expiry, p.cfg.DateFormat)

	op := flags.PatchOpAdd
	if rec.HasProperty(p.cfg.PropertyName) {
		op = flags.PatchOpReplace
	}

	patch := flags.NewExpiryPatch(op, p.cfg.PropertyName, expiryDate)
	if err := p.api.PatchFlag(ctx, rec.Key, patch); err != nil {
		return p.fail(rec, err.Error())
	}

	p.log.Info("Флаг обновлен",
		"key", rec.Key,
		"expiry", expiryDate,
		"op", op,
	)

	return outcome{updated: &flags.UpdatedItem{
		Key:              rec.Key,
		Name:             rec.Name,
		CreationDate:     created.Format(time.RFC3339),
		ExpiryDate:       expiryDate,
		DaysFromCreation: p.cfg.DaysOffset,
		PropertyName:     p.cfg.PropertyName,
	}}
}

func (p *Processor) fail(rec flags.FlagRecord, cause string) outcome {
	message := fmt.Sprintf("Failed to process item %s: %s", rec.Key, cause)

	p.log.Error("Ошибка обработки флага",
		"key", rec.Key,
		"error", cause,
	)

	return outcome{failed: &flags.FailedItem{
		Key:   rec.Key,
		Name:  rec.Name,
		Error: message,
	}}
}
