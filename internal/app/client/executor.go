package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"
)

// APIError - ошибка ответа сервиса флагов. Статус-код хранится
// структурно: решение о ретрае принимается по нему, а не по тексту
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound сообщает, что ресурс отсутствует на сервере
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ExecutorConfig - явная конфигурация ретраев, передается при создании
type ExecutorConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Executor выполняет один логический HTTP-вызов с ограниченным числом
// повторов. 429 ретраится с экспоненциальной задержкой (требование
// сервиса), прочие временные ошибки - с линейной, 404 не ретраится:
// повторный запрос отсутствующего ресурса бессмысленен.
type Executor struct {
	log *slog.Logger
	cfg ExecutorConfig
}

func NewExecutor(cfg ExecutorConfig, log *slog.Logger) *Executor {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Executor{
		log: log,
		cfg: cfg,
	}
}

// requestFunc выполняет один HTTP-запрос. В один момент времени
// Executor держит не больше одного запроса в полете.
type requestFunc func(ctx context.Context) (*http.Response, error)

// ExecuteWithRetry выполняет запрос с повторами. Возвращает первый
// успешный ответ либо последнюю ошибку после исчерпания попыток.
func (e *Executor) ExecuteWithRetry(ctx context.Context, fn requestFunc) (*http.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		resp, err := fn(ctx)
		if err != nil {
			// Сетевая ошибка: ретраим с линейной задержкой
			lastErr = err
			if attempt == e.cfg.MaxAttempts {
				break
			}
			e.log.Warn("Ошибка запроса, повтор",
				"attempt", attempt,
				"error", err,
			)
			if err := e.wait(ctx, e.cfg.BaseDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			// Rate limit: экспоненциальная задержка, повторяем
			// вплоть до исчерпания попыток
			drainBody(resp)
			lastErr = &APIError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Message:    fmt.Sprintf("rate limited: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			}
			if attempt == e.cfg.MaxAttempts {
				break
			}
			delay := e.cfg.BaseDelay * time.Duration(1<<(attempt-1))
			e.log.Warn("Получен 429, ожидание перед повтором",
				"attempt", attempt,
				"delay", delay,
			)
			if err := e.wait(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := classifyStatus(resp)
			lastErr = apiErr
			if apiErr.IsNotFound() || attempt == e.cfg.MaxAttempts {
				break
			}
			e.log.Warn("Ошибка API, повтор",
				"attempt", attempt,
				"status", resp.StatusCode,
			)
			if err := e.wait(ctx, e.cfg.BaseDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// classifyStatus превращает ошибочный ответ в APIError с подсказкой
// для пользователя. Тело ответа вычитывается и закрывается.
func classifyStatus(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	guidance := ""
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		guidance = "Проверьте, что токен существует и имеет права на чтение и запись"
	case http.StatusNotFound:
		guidance = "Ресурс не найден: возможно, проект или флаг не существует"
	}

	message := fmt.Sprintf("API request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if detail := serverErrorDetail(body); detail != "" {
		message += ": " + detail
	}
	if guidance != "" {
		message += ". " + guidance
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    message,
	}
}

// serverErrorDetail достает сообщение об ошибке из тела ответа, если
// сервер вернул стандартную структуру {"message": "..."}
func serverErrorDetail(body []byte) string {
	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	return errResp.Message
}

func (e *Executor) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
