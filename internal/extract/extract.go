package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrParse means the uploaded bytes are not a readable PDF. Parse failures
// are deterministic, so callers must not retry the same bytes.
var ErrParse = errors.New("could not read PDF")

// Form XObjects can nest; two levels covers stamps that wrap other stamps.
const maxFormDepth = 2

// Text extracts the plain-text content of a PDF held in memory.
// The input slice is read-only and never mutated.
//
// Page content streams go through the library interpreter. Form XObjects are
// walked separately: overlays and stamps draw their text inside a form, which
// the page interpreter does not descend into.
func Text(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrParse)
	}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	for i := 1; i <= pdfReader.NumPage(); i++ {
		appendFormText(&buf, pdfReader.Page(i).V.Key("Resources"), 0)
	}

	return buf.String(), nil
}

// appendFormText collects text shown by the form XObjects in a resource
// dictionary, recursing into forms carrying their own resources.
func appendFormText(buf *bytes.Buffer, resources pdf.Value, depth int) {
	if depth > maxFormDepth || resources.Kind() != pdf.Dict {
		return
	}
	xobjects := resources.Key("XObject")
	if xobjects.Kind() != pdf.Dict {
		return
	}
	for _, name := range xobjects.Keys() {
		form := xobjects.Key(name)
		if form.Kind() != pdf.Stream || form.Key("Subtype").Name() != "Form" {
			continue
		}
		rc := form.Reader()
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if text := shownText(content); text != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(text)
		}
		appendFormText(buf, form.Key("Resources"), depth+1)
	}
}

// shownText pulls the string operands of the text-showing operators (Tj, TJ,
// ' and ") out of a decoded content stream. Literal strings only: core-font
// text is written as escaped literals, and that is all a form drawn by this
// service contains.
func shownText(stream []byte) string {
	var lines []string
	var pending []string
	flush := func() {
		if len(pending) > 0 {
			lines = append(lines, strings.Join(pending, ""))
			pending = pending[:0]
		}
	}
	for i := 0; i < len(stream); {
		switch c := stream[i]; {
		case c == '(':
			s, next := readLiteral(stream, i)
			pending = append(pending, s)
			i = next
		case c == 'T' && i+1 < len(stream) && (stream[i+1] == 'j' || stream[i+1] == 'J'):
			flush()
			i += 2
		case c == '\'' || c == '"':
			flush()
			i++
		default:
			i++
		}
	}
	return strings.Join(lines, "\n")
}

// readLiteral decodes one literal string starting at the opening parenthesis
// and returns it with the index past the closing parenthesis. Balanced parens
// and the standard escapes, including octal, are handled.
func readLiteral(stream []byte, start int) (string, int) {
	var b strings.Builder
	depth := 0
	i := start
	for i < len(stream) {
		c := stream[i]
		switch c {
		case '\\':
			i++
			if i >= len(stream) {
				return b.String(), i
			}
			switch e := stream[i]; {
			case e == 'n':
				b.WriteByte('\n')
			case e == 'r':
				b.WriteByte('\r')
			case e == 't':
				b.WriteByte('\t')
			case e == 'b':
				b.WriteByte('\b')
			case e == 'f':
				b.WriteByte('\f')
			case e == '(' || e == ')' || e == '\\':
				b.WriteByte(e)
			case e == '\n':
				// line continuation
			case e >= '0' && e <= '7':
				val := int(e - '0')
				for n := 0; n < 2 && i+1 < len(stream) && stream[i+1] >= '0' && stream[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(stream[i]-'0')
				}
				b.WriteByte(byte(val))
			default:
				b.WriteByte(e)
			}
			i++
		case '(':
			depth++
			if depth > 1 {
				b.WriteByte(c)
			}
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				return b.String(), i
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i
}
