package client

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"flagexpiry/internal/domain/flags"
)

// HistoryStore - локальный журнал прогонов на SQLite. Хранит только
// агрегаты и JSON с результатами, сами флаги не персистятся.
type HistoryStore struct {
	db *sql.DB
}

// RunSummary - строка журнала для вывода списком
type RunSummary struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	Duration   string    `json:"duration"`
	TotalFound int       `json:"total_found"`
	Updated    int       `json:"updated"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Success    bool      `json:"success"`
}

func NewHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	store := &HistoryStore{db: db}

	if err := store.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return store, nil
}

func (s *HistoryStore) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			total_found INTEGER NOT NULL,
			total_processed INTEGER NOT NULL,
			updated_count INTEGER NOT NULL,
			failed_count INTEGER NOT NULL,
			skipped_count INTEGER NOT NULL,
			success BOOLEAN NOT NULL,
			result TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`)

	return err
}

// SaveRun сохраняет результат прогона и возвращает его идентификатор
func (s *HistoryStore) SaveRun(result *flags.RunResult) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	id := uuid.NewString()

	_, err = s.db.Exec(`
		INSERT INTO runs (id, started_at, duration_ms, total_found, total_processed,
		                  updated_count, failed_count, skipped_count, success, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, result.StartTime, result.Duration.Milliseconds(), result.TotalFound,
		result.TotalProcessed, len(result.Updated), len(result.Failed),
		len(result.Skipped), result.Success, string(resultJSON))

	if err != nil {
		return "", fmt.Errorf("ошибка сохранения прогона: %w", err)
	}

	return id, nil
}

// ListRuns возвращает последние прогоны, новые первыми
func (s *HistoryStore) ListRuns(limit int) ([]RunSummary, error) {
	if limit < 1 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT id, started_at, duration_ms, total_found,
		       updated_count, failed_count, skipped_count, success
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var durationMs int64
		if err := rows.Scan(&run.ID, &run.StartedAt, &durationMs, &run.TotalFound,
			&run.Updated, &run.Failed, &run.Skipped, &run.Success); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки журнала: %w", err)
		}
		run.Duration = (time.Duration(durationMs) * time.Millisecond).String()
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun возвращает полный результат прогона по идентификатору
func (s *HistoryStore) GetRun(id string) (*flags.RunResult, error) {
	var resultJSON string
	err := s.db.QueryRow("SELECT result FROM runs WHERE id = ?", id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("прогон %s не найден", id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения прогона: %w", err)
	}

	var result flags.RunResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("ошибка парсинга результата: %w", err)
	}

	return &result, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}
