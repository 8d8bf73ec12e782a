package syllabus

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxFallbackTopics   = 5
	minParagraphRunes   = 31
	defaultUnitCount    = 5
	fallbackTitlePrefix = "Topic"
)

var (
	// Word boundaries keep "Unit Introduction" from reading as "Unit I"
	// and "Subunit 2" from reading as a marker.
	markerRe    = regexp.MustCompile(`(?i)\b(?:unit\s+[ivxlcdm0-9]+|section\s+[0-9]+|chapter\s+[0-9]+)\b`)
	separatorRe = regexp.MustCompile(`^[:\s]*`)
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// Extract builds a Structure from raw syllabus text. It never fails: when no
// markers or outcomes are found it substitutes fallback topics, units, and
// default outcome sets.
func Extract(raw string) Structure {
	markers := markerRe.FindAllStringIndex(raw, -1)
	return Structure{
		Topics:          extractTopics(raw, markers),
		Units:           extractUnits(raw, markers),
		CourseOutcomes:  ExtractCourseOutcomes(raw),
		ProgramOutcomes: ExtractProgramOutcomes(raw),
	}
}

// ExtractTopics returns the topics found in raw.
func ExtractTopics(raw string) []Topic {
	return extractTopics(raw, markerRe.FindAllStringIndex(raw, -1))
}

// ExtractUnits returns the deduplicated unit names found in raw.
func ExtractUnits(raw string) []string {
	return extractUnits(raw, markerRe.FindAllStringIndex(raw, -1))
}

func extractTopics(raw string, markers [][]int) []Topic {
	if len(markers) == 0 {
		return paragraphTopics(raw)
	}

	topics := make([]Topic, 0, len(markers))
	for i, m := range markers {
		end := len(raw)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		content := separatorRe.ReplaceAllString(raw[m[1]:end], "")
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		topics = append(topics, Topic{
			Title:   normalizeSpace(raw[m[0]:m[1]]),
			Content: content,
		})
	}
	return topics
}

// paragraphTopics splits text on blank lines and keeps the first substantial
// paragraphs. Text with no substantial paragraph becomes a single topic.
func paragraphTopics(raw string) []Topic {
	var topics []Topic
	for _, para := range paragraphRe.Split(raw, -1) {
		para = strings.TrimSpace(para)
		if utf8.RuneCountInString(para) < minParagraphRunes {
			continue
		}
		topics = append(topics, Topic{
			Title:   fmt.Sprintf("%s %d", fallbackTitlePrefix, len(topics)+1),
			Content: para,
		})
		if len(topics) == maxFallbackTopics {
			break
		}
	}

	if len(topics) == 0 {
		if text := strings.TrimSpace(raw); text != "" {
			topics = append(topics, Topic{Title: fallbackTitlePrefix + " 1", Content: text})
		}
	}
	return topics
}

func extractUnits(raw string, markers [][]int) []string {
	if len(markers) == 0 {
		return DefaultUnits()
	}

	seen := make(map[string]bool, len(markers))
	units := make([]string, 0, len(markers))
	for _, m := range markers {
		name := normalizeSpace(raw[m[0]:m[1]])
		if seen[name] {
			continue
		}
		seen[name] = true
		units = append(units, name)
	}
	return units
}

// DefaultUnits returns the synthesized unit list used when a syllabus has no
// unit markers.
func DefaultUnits() []string {
	units := make([]string, defaultUnitCount)
	for i := range units {
		units[i] = fmt.Sprintf("Unit %d", i+1)
	}
	return units
}

func normalizeSpace(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
