package syllabus

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	courseOutcomeRe   = regexp.MustCompile(`(?i)\b(?:co\s*\d+|course\s*outcome\s*\d+)`)
	programOutcomeRe  = regexp.MustCompile(`(?i)\b(?:po\s*\d+|program\s*outcome\s*\d+)`)
	outcomeSeparator  = regexp.MustCompile(`^[:.\s]*`)
	defaultCourseAims = []string{
		"core concepts and principles",
		"problem-solving techniques in the subject",
		"practical applications in real-world scenarios",
		"analysis and evaluation methods",
		"creative solutions to complex problems",
	}
	defaultProgramOutcomes = []string{
		"Engineering knowledge",
		"Problem analysis",
		"Design/development of solutions",
		"Conduct investigations of complex problems",
		"Modern tool usage",
		"The engineer and society",
		"Environment and sustainability",
		"Ethics",
		"Individual and team work",
		"Communication",
		"Project management and finance",
		"Life-long learning",
	}
)

// ExtractCourseOutcomes finds "CO<n>" / "Course Outcome <n>" entries. When
// none are found the five default course outcomes are returned.
func ExtractCourseOutcomes(raw string) OutcomeMap {
	if m := extractOutcomes(raw, courseOutcomeRe); len(m) > 0 {
		return m
	}
	return DefaultCourseOutcomes()
}

// ExtractProgramOutcomes finds "PO<n>" / "Program Outcome <n>" entries. When
// none are found the twelve default program outcomes are returned.
func ExtractProgramOutcomes(raw string) OutcomeMap {
	if m := extractOutcomes(raw, programOutcomeRe); len(m) > 0 {
		return m
	}
	return DefaultProgramOutcomes()
}

// DefaultCourseOutcomes returns a fresh copy of the default course outcomes.
func DefaultCourseOutcomes() OutcomeMap {
	m := make(OutcomeMap, len(defaultCourseAims))
	for i, aim := range defaultCourseAims {
		m[fmt.Sprintf("CO%d", i+1)] = "Students will be able to demonstrate knowledge of " + aim
	}
	return m
}

// DefaultProgramOutcomes returns a fresh copy of the default program outcomes.
func DefaultProgramOutcomes() OutcomeMap {
	m := make(OutcomeMap, len(defaultProgramOutcomes))
	for i, o := range defaultProgramOutcomes {
		m[fmt.Sprintf("PO%d", i+1)] = o
	}
	return m
}

func extractOutcomes(raw string, re *regexp.Regexp) OutcomeMap {
	matches := re.FindAllStringIndex(raw, -1)
	out := make(OutcomeMap, len(matches))
	for i, m := range matches {
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		text := strings.TrimSpace(outcomeSeparator.ReplaceAllString(raw[m[1]:end], ""))
		if text == "" {
			continue
		}
		out[normalizeSpace(raw[m[0]:m[1]])] = text
	}
	return out
}
