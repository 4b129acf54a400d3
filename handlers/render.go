package handlers

import (
	"strings"

	"github.com/iradiada19-art/arnold-swimminpool/schedule"
	"github.com/iradiada19-art/arnold-swimminpool/types"
)

// BuildMessageHTML formats a week schedule for Telegram (ParseMode HTML):
//
//	<b>Понедельник – 16 февраля</b>
//	свободное плавание
//	...
//	санитарное время (только если есть)
//	...
//	санитарный день (только если есть)
//	...
func BuildMessageHTML(week *types.WeekSchedule, eveningOnly bool) string {
	if eveningOnly {
		week = schedule.FilterEvening(week, schedule.EveningHour)
	}

	var parts []string
	for _, day := range week.Days {
		parts = append(parts, "<b>"+day.Key+"</b>")

		// свободное плавание — показываем всегда
		parts = append(parts, "свободное плавание")
		if len(day.Free) > 0 {
			parts = append(parts, day.Free...)
		} else {
			parts = append(parts, "нет данных")
		}

		if len(day.SanitaryTime) > 0 {
			parts = append(parts, "санитарное время")
			parts = append(parts, day.SanitaryTime...)
		}

		if len(day.SanitaryDay) > 0 {
			parts = append(parts, "санитарный день")
			parts = append(parts, day.SanitaryDay...)
		}

		parts = append(parts, "")
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}
