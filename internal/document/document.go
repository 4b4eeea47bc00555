package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var ErrUnsupportedType = errors.New("unsupported document type")

// Converter turns a document into plain text.
type Converter interface {
	ToPlainText(data []byte) (string, error)
}

// Text converts PDF and plain text documents.
type Text struct{}

func New() *Text {
	return &Text{}
}

// ToPlainText detects the document type and extracts its text. Empty input gives
// empty text without error.
func (t *Text) ToPlainText(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", nil
	}

	mime := mimetype.Detect(data)

	var raw string
	switch {
	case mime.Is("application/pdf"):
		text, err := pdfText(data)
		if err != nil {
			return "", fmt.Errorf("read pdf: %w", err)
		}
		raw = text
	case strings.HasPrefix(mime.String(), "text/"):
		text, err := decodeText(data)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrUnsupportedType, mime.String(), err)
		}
		raw = text
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
	}

	return Clean(raw), nil
}

// decodeText returns UTF-8 input as is. Anything else is read as windows-1251,
// the usual encoding of Russian resumes saved as plain text.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}

	return buf.String(), nil
}

var (
	horizontalSpace = regexp.MustCompile(`[^\S\n]+`)
	blankLines      = regexp.MustCompile(`\n{2,}`)
)

// Clean normalizes extracted text: NFKC, no control characters, collapsed spaces.
// Line breaks are kept because they delimit skill lists.
func Clean(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == utf8.RuneError {
			return -1
		}
		return r
	}, s)

	lines := strings.Split(horizontalSpace.ReplaceAllString(s, " "), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n")
	return strings.TrimSpace(s)
}
