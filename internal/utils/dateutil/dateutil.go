package dateutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// Поддерживаемые форматы дат. Сравнение без учета регистра.
const (
	FormatMMDDYYYYSlash = "MM/DD/YYYY"
	FormatMMDDYYYYDash  = "MM-DD-YYYY"
	FormatYYYYMMDDDash  = "YYYY-MM-DD"
	FormatYYYYMMDDSlash = "YYYY/MM/DD"

	// DefaultFormat используется при нераспознанном формате
	DefaultFormat = FormatMMDDYYYYSlash
)

// Паттерны валидации: месяц и день из 1-2 цифр, год ровно из 4
var validationPatterns = map[string]*regexp.Regexp{
	FormatMMDDYYYYSlash: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`),
	FormatMMDDYYYYDash:  regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`),
	FormatYYYYMMDDDash:  regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`),
	FormatYYYYMMDDSlash: regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`),
}

// NormalizeFormat приводит формат к каноническому виду.
// Нераспознанный формат заменяется на DefaultFormat.
func NormalizeFormat(format string) string {
	switch strings.ToUpper(strings.TrimSpace(format)) {
	case FormatMMDDYYYYSlash:
		return FormatMMDDYYYYSlash
	case FormatMMDDYYYYDash:
		return FormatMMDDYYYYDash
	case FormatYYYYMMDDDash:
		return FormatYYYYMMDDDash
	case FormatYYYYMMDDSlash:
		return FormatYYYYMMDDSlash
	default:
		return DefaultFormat
	}
}

// FormatDate форматирует дату в одном из четырех поддерживаемых форматов.
// Месяц и день дополняются нулем до двух цифр, год печатается как есть
// (предполагается год >= 1000).
func FormatDate(t time.Time, format string) string {
	year, month, day := t.Date()

	switch NormalizeFormat(format) {
	case FormatMMDDYYYYDash:
		return fmt.Sprintf("%02d-%02d-%d", month, day, year)
	case FormatYYYYMMDDDash:
		return fmt.Sprintf("%d-%02d-%02d", year, month, day)
	case FormatYYYYMMDDSlash:
		return fmt.Sprintf("%d/%02d/%02d", year, month, day)
	default:
		return fmt.Sprintf("%02d/%02d/%d", month, day, year)
	}
}

// Today возвращает текущую локальную календарную дату в заданном формате
func Today(format string) string {
	return FormatDate(time.Now(), format)
}

// IsValidDateFormat проверяет, что строка является корректной календарной
// датой в заданном формате. Сначала строка сверяется с паттерном формата,
// затем из разобранных компонентов восстанавливается нормализованная дата:
// если год/месяц/день восстановленной даты не совпали с разобранными,
// дата невозможна (31.04, 29.02 невисокосного года и т.п.).
func IsValidDateFormat(input, format string) bool {
	if input == "" {
		return false
	}

	canonical, ok := lookupFormat(format)
	if !ok {
		slog.Warn("Нераспознанный формат даты", "format", format)
		return false
	}

	matches := validationPatterns[canonical].FindStringSubmatch(input)
	if matches == nil {
		return false
	}

	var year, month, day int
	switch canonical {
	case FormatYYYYMMDDDash, FormatYYYYMMDDSlash:
		year, _ = strconv.Atoi(matches[1])
		month, _ = strconv.Atoi(matches[2])
		day, _ = strconv.Atoi(matches[3])
	default:
		month, _ = strconv.Atoi(matches[1])
		day, _ = strconv.Atoi(matches[2])
		year, _ = strconv.Atoi(matches[3])
	}

	reconstructed := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return reconstructed.Year() == year &&
		int(reconstructed.Month()) == month &&
		reconstructed.Day() == day
}

// lookupFormat отличается от NormalizeFormat тем, что не подставляет
// формат по умолчанию: валидация нераспознанного формата - ошибка вызова
func lookupFormat(format string) (string, bool) {
	canonical := strings.ToUpper(strings.TrimSpace(format))
	if _, ok := validationPatterns[canonical]; !ok {
		return "", false
	}
	return canonical, true
}
