// Package resume turns an uploaded resume into best-effort contact fields.
package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	NoteMissing   = "Some information is missing. Please fill manually."
	NoteExtracted = "Information extracted from document. Please verify below."
	NoteFailed    = "Automatic parsing failed. Please enter your information manually."

	// DefaultName is used when neither the text nor the filename yields a name.
	DefaultName = "Your Name"

	previewLength = 1000
)

var (
	EmailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	PhonePattern = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// Fields is what the extractor recovered from a document.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Note    string `json:"note"`
	Preview string `json:"preview,omitempty"`
	// NameGuessed is set when Name came from the filename or DefaultName
	// rather than the document text.
	NameGuessed bool `json:"nameGuessed,omitempty"`
}

// Missing reports whether any contact field still needs to be collected.
// A guessed name still needs confirming.
func (f Fields) Missing() bool {
	return f.Name == "" || f.NameGuessed || f.Email == "" || f.Phone == ""
}

// Extract finds email, phone and name in raw resume text. It never fails:
// absent fields are empty and the name falls back to the filename.
func Extract(rawText, fileName string) Fields {
	f := Fields{
		Email:   EmailPattern.FindString(rawText),
		Phone:   strings.TrimSpace(PhonePattern.FindString(rawText)),
		Preview: preview(rawText),
	}

	f.Name = nameFromText(rawText)
	if f.Name == "" {
		f.Name = NameFromFilename(fileName)
		f.NameGuessed = true
	}

	if f.Email == "" || f.Phone == "" {
		f.Note = NoteMissing
	} else {
		f.Note = NoteExtracted
	}
	return f
}

// Fallback is returned when the document could not be read at all.
func Fallback(fileName string) Fields {
	return Fields{
		Name:        NameFromFilename(fileName),
		NameGuessed: true,
		Note:        NoteFailed,
	}
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	return string([]rune(text)[:previewLength])
}
