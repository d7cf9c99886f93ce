package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+){1,3}$`),
		regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z]\.?\s*[A-Z][a-z]+$`),
	}

	headerPrefix   = regexp.MustCompile(`(?i)^(resume|curriculum vitae|cv|portfolio|profile)\s*[:\-]?\s*`)
	nameStopWords  = regexp.MustCompile(`(?i)http|www\.|\.com|\.org|resume|\bcv\b|portfolio|profile|linkedin|github|phone|email|address`)
	capitalized    = regexp.MustCompile(`^[A-Z][a-z]*$`)
	contactPhone   = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
	contactWords   = regexp.MustCompile(`(?i)\b(phone|email|contact)\b`)
	fileExtension  = regexp.MustCompile(`(?i)\.(pdf|docx?|txt)$`)
	fileNameNoise  = regexp.MustCompile(`(?i)resume|cv|[_\-]`)
	alphabeticOnly = regexp.MustCompile(`^[A-Za-z]+$`)
)

const headLines = 5

// nameFromText tries the first line, then the head of the document, then a
// name-like line followed by contact details.
func nameFromText(text string) string {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return ""
	}

	if name := matchName(lines[0]); name != "" {
		return name
	}

	for _, line := range lines[:min(headLines, len(lines))] {
		if name := matchName(line); name != "" {
			return name
		}
	}

	for i := 0; i+1 < len(lines); i++ {
		if looksLikeName(lines[i]) && hasContactInfo(lines[i+1]) {
			name := cleanLine(lines[i])
			if validName(name) {
				return name
			}
		}
	}

	return ""
}

func matchName(line string) string {
	line = cleanLine(line)
	for _, p := range namePatterns {
		if p.MatchString(line) && validName(line) {
			return line
		}
	}
	return ""
}

func cleanLine(line string) string {
	line = headerPrefix.ReplaceAllString(strings.TrimSpace(line), "")
	return strings.Join(strings.Fields(line), " ")
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < 4 || n > 50 {
		return false
	}
	words := len(strings.Fields(name))
	if words < 2 || words > 4 {
		return false
	}
	if strings.ContainsFunc(name, unicode.IsDigit) {
		return false
	}
	return !nameStopWords.MatchString(name)
}

func looksLikeName(line string) bool {
	if utf8.RuneCountInString(line) > 50 {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	caps := 0
	for _, w := range words {
		if capitalized.MatchString(w) {
			caps++
		}
	}
	return caps >= 2
}

func hasContactInfo(line string) bool {
	return strings.Contains(line, "@") || contactPhone.MatchString(line) || contactWords.MatchString(line)
}

// NameFromFilename derives a display name from an upload name such as
// "john_doe_resume.pdf".
func NameFromFilename(fileName string) string {
	base := fileExtension.ReplaceAllString(strings.TrimSpace(fileName), "")
	base = fileNameNoise.ReplaceAllString(base, " ")

	var parts []string
	for _, p := range strings.Fields(base) {
		if len(p) > 1 && alphabeticOnly.MatchString(p) {
			parts = append(parts, titleCase(p))
		}
		if len(parts) == 3 {
			break
		}
	}

	if len(parts) == 0 {
		return DefaultName
	}
	return strings.Join(parts, " ")
}

func titleCase(word string) string {
	lower := strings.ToLower(word)
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
