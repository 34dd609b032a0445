package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"flagexpiry/internal/app/client/config"
	"flagexpiry/internal/domain/flags"
)

// httpClient - низкоуровневый клиент API сервиса флагов.
// Все вызовы проходят через Executor.
type httpClient struct {
	client     *http.Client
	exec       *Executor
	log        *slog.Logger
	baseURL    string
	token      string
	projectKey string
	userAgent  string
}

func newHTTPClient(cfg *config.Config, exec *Executor, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:     client,
		exec:       exec,
		log:        log,
		baseURL:    cfg.APIBaseURL,
		token:      cfg.APIToken,
		projectKey: cfg.ProjectKey,
		userAgent:  "FlagExpiry-Client/1.0",
	}
}

// ListFlags возвращает одну страницу флагов проекта
func (h *httpClient) ListFlags(ctx context.Context, limit, offset int) (*flags.Page, error) {
	query := url.Values{
		"limit":  {fmt.Sprint(limit)},
		"offset": {fmt.Sprint(offset)},
	}
	path := fmt.Sprintf("/api/v2/flags/%s?%s", url.PathEscape(h.projectKey), query.Encode())

	resp, err := h.exec.ExecuteWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		return h.doRequest(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return nil, err
	}

	var page flags.Page
	if err := h.parseResponse(resp, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// GetFlag возвращает флаг по ключу. Отсутствие флага (404) - не ошибка:
// вызывающая сторона трактует nil как "флага нет".
func (h *httpClient) GetFlag(ctx context.Context, key string) (*flags.FlagRecord, error) {
	path := fmt.Sprintf("/api/v2/flags/%s/%s", url.PathEscape(h.projectKey), url.PathEscape(key))

	resp, err := h.exec.ExecuteWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		return h.doRequest(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return nil, nil
		}
		return nil, err
	}

	var flag flags.FlagRecord
	if err := h.parseResponse(resp, &flag); err != nil {
		return nil, err
	}

	return &flag, nil
}

// PatchFlag применяет JSON-Patch к флагу
func (h *httpClient) PatchFlag(ctx context.Context, key string, patch flags.PatchRequest) error {
	path := fmt.Sprintf("/api/v2/flags/%s/%s", url.PathEscape(h.projectKey), url.PathEscape(key))

	resp, err := h.exec.ExecuteWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		return h.doRequest(ctx, http.MethodPatch, path, patch)
	})
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", h.token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
	)

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
