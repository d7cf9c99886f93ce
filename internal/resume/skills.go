package resume

import "strings"

var commonSkills = []string{
	"JavaScript", "TypeScript", "React", "Vue", "Angular", "Node.js", "Python", "Java",
	"Go", "HTML", "CSS", "SQL", "MongoDB", "PostgreSQL", "Docker", "Kubernetes",
	"AWS", "Git", "GraphQL", "Redux",
}

var defaultSkills = []string{"JavaScript", "React", "Node.js", "HTML/CSS"}

// Skills lists the common skills mentioned in the text, or a generic default set.
func Skills(text string) []string {
	words := tokenSet(text)
	lower := strings.ToLower(text)

	var found []string
	for _, s := range commonSkills {
		key := strings.ToLower(s)
		// short names like "Go" or "Java" must match a whole token
		if len(key) <= 4 {
			if _, ok := words[key]; ok {
				found = append(found, s)
			}
			continue
		}
		if strings.Contains(lower, key) {
			found = append(found, s)
		}
	}

	if len(found) == 0 {
		return append([]string(nil), defaultSkills...)
	}
	return found
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '.' || r == '+' || r == '#')
	}) {
		set[strings.Trim(w, ".")] = struct{}{}
	}
	return set
}
