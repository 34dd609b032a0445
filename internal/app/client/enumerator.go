package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"flagexpiry/internal/domain/flags"
)

// EnumeratorConfig - параметры постраничного обхода
type EnumeratorConfig struct {
	PageSize  int
	PageDelay time.Duration // пауза между страницами, чтобы не упереться в rate limit
}

// Enumerator постранично выгружает все флаги проекта.
// Размер коллекции не ограничен: тысячи флагов собираются без усечения.
type Enumerator struct {
	api *httpClient
	log *slog.Logger
	cfg EnumeratorConfig
}

func NewEnumerator(api *httpClient, cfg EnumeratorConfig, log *slog.Logger) *Enumerator {
	if cfg.PageSize < 1 {
		cfg.PageSize = 50
	}
	return &Enumerator{
		api: api,
		log: log,
		cfg: cfg,
	}
}

// FetchAll собирает полный список флагов в порядке прихода страниц.
// Устойчивой изоляции по страницам нет: ошибка на любой странице
// (после ретраев Executor) прерывает весь обход.
func (e *Enumerator) FetchAll(ctx context.Context) ([]flags.FlagRecord, error) {
	var all []flags.FlagRecord
	offset := 0

	for {
		page, err := e.api.ListFlags(ctx, e.cfg.PageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("ошибка выгрузки флагов на offset %d: %w", offset, err)
		}

		all = append(all, page.Items...)

		e.log.Debug("Страница флагов получена",
			"offset", offset,
			"count", len(page.Items),
			"total", len(all),
		)

		// Короткая или пустая страница означает конец коллекции
		if len(page.Items) == 0 || len(page.Items) < e.cfg.PageSize {
			break
		}

		offset += e.cfg.PageSize

		if e.cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.cfg.PageDelay):
			}
		}
	}

	e.log.Info("Выгрузка флагов завершена", "total", len(all))

	return all, nil
}
