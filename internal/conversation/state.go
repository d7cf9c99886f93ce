// Package conversation collects contact fields the resume parser could not find.
package conversation

import (
	"strings"
	"unicode"

	"github.com/spigell/interview-trainer/internal/resume"
)

// Field is a required contact field.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// RequiredFields is the order in which missing fields are asked for.
var RequiredFields = []Field{FieldName, FieldEmail, FieldPhone}

// Stage tags the State variant.
type Stage int

const (
	StageWelcome Stage = iota
	StageCollecting
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageWelcome:
		return "welcome"
	case StageCollecting:
		return "collecting"
	case StageComplete:
		return "complete"
	}
	return "unknown"
}

// Record is the contact data gathered so far.
type Record struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// FromResume seeds a Record from extracted fields. A name guessed from the
// filename is left empty so it is asked for.
func FromResume(f resume.Fields) Record {
	rec := Record{Email: f.Email, Phone: f.Phone}
	if !f.NameGuessed {
		rec.Name = f.Name
	}
	return rec
}

func (r Record) get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	}
	return ""
}

func (r *Record) set(f Field, v string) {
	switch f {
	case FieldName:
		r.Name = v
	case FieldEmail:
		r.Email = v
	case FieldPhone:
		r.Phone = v
	}
}

// State is Welcome, Collecting(Field, Remaining) or Complete.
// Field and Remaining are meaningful only while collecting.
type State struct {
	Stage     Stage
	Field     Field
	Remaining []Field
	Record    Record
}

// Missing lists the field being collected followed by the ones still queued.
func (s State) Missing() []Field {
	if s.Stage != StageCollecting {
		return nil
	}
	return append([]Field{s.Field}, s.Remaining...)
}

// Init leaves Welcome: it queues every empty required field, in order.
// The resume placeholder name counts as empty.
func Init(rec Record) State {
	var missing []Field
	for _, f := range RequiredFields {
		v := strings.TrimSpace(rec.get(f))
		if v == "" || (f == FieldName && v == resume.DefaultName) {
			missing = append(missing, f)
		}
	}
	return advance(State{Record: rec}, missing)
}

// Reduce applies one user message. Only the field currently being collected is
// parsed; a message it rejects leaves the state unchanged.
func Reduce(s State, message string) (State, bool) {
	if s.Stage != StageCollecting {
		return s, false
	}

	value, ok := ParseField(s.Field, message)
	if !ok {
		return s, false
	}

	next := State{Record: s.Record}
	next.Record.set(s.Field, value)
	return advance(next, s.Remaining), true
}

func advance(s State, queue []Field) State {
	if len(queue) == 0 {
		s.Stage, s.Field, s.Remaining = StageComplete, "", nil
		return s
	}
	s.Stage = StageCollecting
	s.Field = queue[0]
	s.Remaining = append([]Field(nil), queue[1:]...)
	return s
}

// ParseField extracts a value for f from free text.
func ParseField(f Field, message string) (string, bool) {
	msg := strings.TrimSpace(message)

	switch f {
	case FieldEmail:
		if m := resume.EmailPattern.FindString(msg); m != "" {
			return m, true
		}
	case FieldPhone:
		if m := resume.PhonePattern.FindString(msg); m != "" {
			return strings.TrimSpace(m), true
		}
	case FieldName:
		if len([]rune(msg)) > 1 && !strings.Contains(msg, "@") && !strings.ContainsFunc(msg, unicode.IsDigit) {
			return titleWords(msg), true
		}
	}
	return "", false
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
