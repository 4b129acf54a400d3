package schedule

import (
	"regexp"
	"strconv"

	"github.com/iradiada19-art/arnold-swimminpool/types"
)

// EveningHour — с какого часа сеанс считается вечерним.
const EveningHour = 18

var startHourRe = regexp.MustCompile(`с\s*(\d{1,2}):\d{2}`)

// FilterEvening returns a new WeekSchedule keeping only time ranges that
// start at or after thresholdHour. Ranges whose start hour cannot be parsed
// are dropped. The input schedule is not mutated.
func FilterEvening(week *types.WeekSchedule, thresholdHour int) *types.WeekSchedule {
	out := &types.WeekSchedule{Days: make([]types.Day, 0, len(week.Days))}
	for _, day := range week.Days {
		out.Days = append(out.Days, types.Day{
			Key:          day.Key,
			Free:         filterRanges(day.Free, thresholdHour),
			SanitaryTime: filterRanges(day.SanitaryTime, thresholdHour),
			SanitaryDay:  filterRanges(day.SanitaryDay, thresholdHour),
		})
	}
	return out
}

func filterRanges(ranges []string, thresholdHour int) []string {
	out := make([]string, 0, len(ranges))
	for _, r := range ranges {
		m := startHourRe.FindStringSubmatch(r)
		if m == nil {
			continue
		}
		hour, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if hour >= thresholdHour {
			out = append(out, r)
		}
	}
	return out
}
