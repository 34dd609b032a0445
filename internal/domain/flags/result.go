package flags

import "time"

// UpdatedItem - флаг, которому успешно записана дата истечения
type UpdatedItem struct {
	Key              string `json:"key"`
	Name             string `json:"name"`
	CreationDate     string `json:"creation_date"` // ISO 8601
	ExpiryDate       string `json:"expiry_date"`
	DaysFromCreation int    `json:"days_from_creation"`
	PropertyName     string `json:"property_name"`
}

// FailedItem - флаг, обработка которого завершилась ошибкой
type FailedItem struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// SkippedItem - флаг, пропущенный фильтром до обработки
type SkippedItem struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	Reason        string `json:"reason"`
	ExistingValue string `json:"existing_value,omitempty"`
}

// RunResult - агрегированный результат одного прогона.
// Каждый найденный флаг попадает ровно в одну из трех категорий.
type RunResult struct {
	Updated        []UpdatedItem `json:"updated"`
	Failed         []FailedItem  `json:"failed"`
	Skipped        []SkippedItem `json:"skipped"`
	TotalFound     int           `json:"total_found"`
	TotalProcessed int           `json:"total_processed"`
	Success        bool          `json:"success"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	Duration       time.Duration `json:"duration"`
}

// Finalize фиксирует время окончания прогона и итоговый статус.
// Прогон считается успешным только при полном отсутствии ошибок.
func (r *RunResult) Finalize(fatal bool) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Success = !fatal && len(r.Failed) == 0
}
