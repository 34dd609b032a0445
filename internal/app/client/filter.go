package client

import (
	"flagexpiry/internal/domain/flags"
)

// Partition - результат разбиения выгруженных флагов
type Partition struct {
	ToProcess []flags.FlagRecord
	Skipped   []flags.SkippedItem
}

// PartitionFlags разбивает флаги на подлежащие обработке и пропущенные.
// Чистая функция, без I/O. Порядок проверок фиксирован: сначала
// skip-existing, затем валидность даты создания. Флаг с существующим
// property и без даты создания попадет в "Already has" (при
// skipExisting=true), а не в "invalid date".
func PartitionFlags(records []flags.FlagRecord, propertyName string, skipExisting bool) Partition {
	part := Partition{
		ToProcess: make([]flags.FlagRecord, 0, len(records)),
	}

	for _, rec := range records {
		if skipExisting {
			if existing, ok := rec.PropertyValue(propertyName); ok {
				part.Skipped = append(part.Skipped, flags.SkippedItem{
					Key:           rec.Key,
					Name:          rec.Name,
					Reason:        "Already has " + propertyName,
					ExistingValue: existing,
				})
				continue
			}
		}

		if _, ok := rec.CreationTime(); !ok {
			part.Skipped = append(part.Skipped, flags.SkippedItem{
				Key:    rec.Key,
				Name:   rec.Name,
				Reason: "Invalid or missing creation date",
			})
			continue
		}

		part.ToProcess = append(part.ToProcess, rec)
	}

	return part
}
