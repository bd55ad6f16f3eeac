package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTextFromSamplePDF(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "sample.pdf"))
	if err != nil {
		t.Fatalf("read sample pdf: %v", err)
	}

	text, err := Text(context.Background(), data)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(text, "Experienced software engineer") {
		t.Fatalf("extracted text missing expected content: %q", text)
	}
	if !strings.Contains(text, "e-commerce platform") {
		t.Fatalf("extracted text missing second line: %q", text)
	}
}

func TestTextRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "plain text renamed to pdf", data: []byte("this is just a text file")},
		{name: "empty", data: nil},
		{name: "truncated header", data: []byte("%PDF-1.4")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := Text(context.Background(), tt.data)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
		})
	}
}

func TestShownText(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{name: "single Tj", stream: "BT /F1 12 Tf (Hello world) Tj ET", want: "Hello world"},
		{name: "one line per Tj", stream: "(first) Tj 0 -14 Td (second) Tj", want: "first\nsecond"},
		{name: "TJ array joins fragments", stream: "[(Kerned) -120 ( text)] TJ", want: "Kerned text"},
		{name: "escaped parens", stream: `(a \(quoted\) word) Tj`, want: "a (quoted) word"},
		{name: "octal escapes", stream: `(tab\134\101) Tj`, want: "tab\\A"},
		{name: "quote operator", stream: "(moved down) '", want: "moved down"},
		{name: "no text operators", stream: "0 0 612 792 re f", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := shownText([]byte(tt.stream)); got != tt.want {
				t.Fatalf("shownText(%q) = %q, want %q", tt.stream, got, tt.want)
			}
		})
	}
}

func TestTextHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Text(ctx, []byte("%PDF-1.4"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
