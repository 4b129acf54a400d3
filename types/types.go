package types

import "errors"

// ErrParseFailure возвращается, когда ни один лист книги не дал ни одного
// заполненного дня — формат расписания не распознан.
var ErrParseFailure = errors.New("не удалось распознать формат расписания")

// Day represents one day column of the published timetable.
// Key is the display label, e.g. "Понедельник – 16 февраля".
type Day struct {
	Key          string   `json:"key"`
	Free         []string `json:"free"`          // свободное плавание
	SanitaryTime []string `json:"sanitary_time"` // санитарное время
	SanitaryDay  []string `json:"sanitary_day"`  // санитарный день
}

// Empty reports whether the day has no extracted time ranges at all.
func (d *Day) Empty() bool {
	return len(d.Free) == 0 && len(d.SanitaryTime) == 0 && len(d.SanitaryDay) == 0
}

// WeekSchedule is the extraction result: one entry per detected day column,
// in column (left-to-right) order. Built fresh on every extraction, never
// mutated afterwards.
type WeekSchedule struct {
	Days []Day `json:"days"`
}
