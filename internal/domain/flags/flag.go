package flags

import (
	"strings"
	"time"
)

// FlagRecord - feature-флаг, полученный из внешнего сервиса.
// Живет только в рамках одного прогона, локально не сохраняется.
type FlagRecord struct {
	Key              string                   `json:"key"`
	Name             string                   `json:"name"`
	CreationDate     int64                    `json:"creationDate"` // epoch в миллисекундах, 0 если отсутствует
	CustomProperties map[string]PropertyValue `json:"customProperties"`
}

// PropertyValue - значение custom property флага.
// Сервис хранит значения списком, на практике список одноэлементный.
type PropertyValue struct {
	Name  string   `json:"name"`
	Value []string `json:"value"`
}

// CreationTime возвращает дату создания флага.
// Второе значение false, если дата отсутствует или некорректна.
func (f *FlagRecord) CreationTime() (time.Time, bool) {
	if f.CreationDate <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(f.CreationDate).UTC(), true
}

// PropertyValue возвращает непустое значение custom property, если оно есть
func (f *FlagRecord) PropertyValue(name string) (string, bool) {
	prop, ok := f.CustomProperties[name]
	if !ok || len(prop.Value) == 0 {
		return "", false
	}
	value := strings.TrimSpace(prop.Value[0])
	if value == "" {
		return "", false
	}
	return value, true
}

// HasProperty проверяет, есть ли у флага непустое значение property
func (f *FlagRecord) HasProperty(name string) bool {
	_, ok := f.PropertyValue(name)
	return ok
}

// Page - одна страница ответа list-эндпоинта
type Page struct {
	Items      []FlagRecord `json:"items"`
	TotalCount int          `json:"totalCount"`
}
