package resume

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExtractRoundTrip(t *testing.T) {
	text := "Jane Doe\nSenior Engineer\nContact: jane.doe@example.com, (555) 123-4567\n"

	got := Extract(text, "upload.pdf")
	if got.Name != "Jane Doe" {
		t.Fatalf("expected name Jane Doe, got %q", got.Name)
	}
	if got.Email != "jane.doe@example.com" {
		t.Fatalf("unexpected email: %q", got.Email)
	}
	if got.Phone != "(555) 123-4567" {
		t.Fatalf("unexpected phone: %q", got.Phone)
	}
	if got.Note != NoteExtracted {
		t.Fatalf("unexpected note: %q", got.Note)
	}
	if got.Missing() || got.NameGuessed {
		t.Fatalf("expected no missing fields, got %+v", got)
	}
}

func TestExtractNothingFound(t *testing.T) {
	got := Extract("just some words here\nand nothing else", "john_smith_resume.pdf")
	if got.Email != "" || got.Phone != "" {
		t.Fatalf("expected empty contact fields, got %+v", got)
	}
	if got.Note != NoteMissing {
		t.Fatalf("unexpected note: %q", got.Note)
	}
	if got.Name != "John Smith" || !got.NameGuessed {
		t.Fatalf("expected guessed filename fallback, got %q (guessed=%v)", got.Name, got.NameGuessed)
	}
	if !got.Missing() {
		t.Fatal("a guessed name must still count as missing")
	}
}

func TestExtractPhoneFormats(t *testing.T) {
	tests := map[string]string{
		"call 555-123-4567 today":      "555-123-4567",
		"mobile: +1 555 123 4567":      "+1 555 123 4567",
		"tel 555.123.4567":             "555.123.4567",
		"reach me at (555)123-4567 ok": "(555)123-4567",
	}
	for text, want := range tests {
		if got := Extract(text, "").Phone; got != want {
			t.Fatalf("Extract(%q).Phone = %q, want %q", text, got, want)
		}
	}
}

func TestNameStrategies(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "first line", text: "John Smith\nDeveloper", want: "John Smith"},
		{name: "header prefix", text: "Resume: Anna Maria Lopez\nDeveloper", want: "Anna Maria Lopez"},
		{name: "middle initial", text: "John A. Smith\nDeveloper", want: "John A. Smith"},
		{name: "within first lines", text: "CURRICULUM\n2024\nMaria Garcia\nDeveloper", want: "Maria Garcia"},
		{
			name: "followed by contact",
			text: "SUMMARY\nbuilding web apps\nskills\ngo and react\nexperience\n10 years\nMary Jones\nEmail: mary@example.com",
			want: "Mary Jones",
		},
		{name: "rejects jargon", text: "Visit Github Profile\nnothing", want: ""},
		{name: "rejects digits", text: "Room 42\nnothing", want: ""},
		{name: "single word", text: "Developer\nnothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nameFromText(tt.text); got != tt.want {
				t.Fatalf("nameFromText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNameFromFilename(t *testing.T) {
	tests := map[string]string{
		"john_doe_resume.pdf":    "John Doe",
		"CV-anna-maria.docx":     "Anna Maria",
		"resume.pdf":             DefaultName,
		"12345.pdf":              DefaultName,
		"a_b_c.doc":              DefaultName,
		"one-two-three-four.txt": "One Two Three",
		"":                       DefaultName,
	}
	for in, want := range tests {
		if got := NameFromFilename(in); got != want {
			t.Fatalf("NameFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPreviewIsCapped(t *testing.T) {
	got := Extract(strings.Repeat("é", 1500), "x.txt")
	if n := len([]rune(got.Preview)); n != 1000 {
		t.Fatalf("expected 1000 rune preview, got %d", n)
	}
}

func TestSkills(t *testing.T) {
	got := Skills("Built services in Go and TypeScript, deployed with Docker on AWS.")
	want := []string{"TypeScript", "Go", "Docker", "AWS"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected skills: %v", got)
	}

	if got := Skills("JavaScript only"); strings.Join(got, ",") != "JavaScript" {
		t.Fatalf("java must not match inside javascript: %v", got)
	}

	if got := Skills("nothing relevant"); strings.Join(got, ",") != "JavaScript,React,Node.js,HTML/CSS" {
		t.Fatalf("expected default skills, got %v", got)
	}
}

func TestTextPlainAndDocx(t *testing.T) {
	ctx := context.Background()

	got, err := Text(ctx, []byte("Jane Doe\njane@example.com"), "text/plain; charset=utf-8", "cv.txt")
	if err != nil {
		t.Fatalf("Text plain: %v", err)
	}
	if !strings.HasPrefix(got, "Jane Doe") {
		t.Fatalf("unexpected plain text: %q", got)
	}

	docx := buildDocx(t, `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>jane@example.com</w:t></w:r></w:p></w:body></w:document>`)
	got, err = Text(ctx, docx, "application/zip", "cv.docx")
	if err != nil {
		t.Fatalf("Text docx: %v", err)
	}
	if got != "Jane Doe\njane@example.com" {
		t.Fatalf("unexpected docx text: %q", got)
	}

	if _, err := Text(ctx, []byte("GIF89a"), "image/gif", "photo.gif"); err == nil {
		t.Fatal("expected unsupported mime type error")
	}
}

func TestDetectMimeType(t *testing.T) {
	if got := DetectMimeType("cv.PDF", nil); got != MimePDF {
		t.Fatalf("unexpected mime: %s", got)
	}
	if got := DetectMimeType("notes", []byte("plain words")); got != MimePlain {
		t.Fatalf("unexpected mime: %s", got)
	}
}

func TestParseFallsBackOnUnreadableDocument(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)

	got := Parse(context.Background(), []byte("not a pdf"), MimePDF, "jane_doe.pdf", zap.New(core))
	if got.Note != NoteFailed {
		t.Fatalf("unexpected note: %q", got.Note)
	}
	if got.Name != "Jane Doe" || got.Email != "" || got.Phone != "" {
		t.Fatalf("unexpected fallback fields: %+v", got.Fields)
	}
	if observed.Len() != 1 {
		t.Fatalf("expected one warning, got %d", observed.Len())
	}
}

func TestParsePlainText(t *testing.T) {
	got := Parse(context.Background(), []byte("Jane Doe\njane@example.com\n555-123-4567\nReact and Node.js"), MimePlain, "cv.txt", nil)
	if got.Missing() {
		t.Fatalf("expected all fields, got %+v", got.Fields)
	}
	if strings.Join(got.Skills, ",") != "React,Node.js" {
		t.Fatalf("unexpected skills: %v", got.Skills)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
