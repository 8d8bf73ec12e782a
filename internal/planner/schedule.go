package planner

import (
	"unicode/utf8"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// Schedule defaults.
const (
	DefaultTotalWeeks   = 16
	DefaultHoursPerWeek = 3
)

const (
	// advanceThreshold: a draw above it moves to the next topic, so a
	// topic repeats in the next session 70% of the time.
	advanceThreshold = 0.7
	descriptionRunes = 100
)

// ScheduleEntry is one teaching session.
type ScheduleEntry struct {
	ID          int    `json:"id"`
	Week        int    `json:"week"`
	Session     int    `json:"session"`
	Day         string `json:"day"`
	Unit        string `json:"unit"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
	Activities  string `json:"activities"`
}

// Schedule walks teaching hours week by week, emitting one entry per hour
// for the current topic and moving on to the next topic with probability
// 0.3. It stops after totalWeeks or when topics run out.
func Schedule(rng random.Source, cat *catalog.Catalog, topics []syllabus.Topic, units []string, totalWeeks, hoursPerWeek int) []ScheduleEntry {
	if cat == nil {
		cat = catalog.Default()
	}
	if len(units) == 0 {
		units = syllabus.DefaultUnits()
	}

	schedule := []ScheduleEntry{}
	if hoursPerWeek <= 0 {
		return schedule
	}

	perUnit := max(1, len(topics)/len(units))
	week, hour, idx := 1, 1, 0
	for week <= totalWeeks && idx < len(topics) {
		topic := topics[idx]
		unit := units[min(idx/perUnit, len(units)-1)]

		schedule = append(schedule, ScheduleEntry{
			ID:          len(schedule) + 1,
			Week:        week,
			Session:     hour,
			Day:         sessionDay(hour),
			Unit:        unit,
			Topic:       topic.Title,
			Description: truncate(topic.Content, descriptionRunes),
			Activities:  cat.ScheduleActivities,
		})

		hour++
		if hour > hoursPerWeek {
			hour = 1
			week++
		}
		if rng.Float64() > advanceThreshold {
			idx++
		}
	}
	return schedule
}

// TotalHours is the teaching time a schedule request covers.
func TotalHours(totalWeeks, hoursPerWeek int) int {
	return totalWeeks * hoursPerWeek
}

func sessionDay(hour int) string {
	switch hour {
	case 1:
		return "Monday"
	case 2:
		return "Wednesday"
	default:
		return "Friday"
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
