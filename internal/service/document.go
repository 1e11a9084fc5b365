package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// Supported resume upload types
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// MimeFromFilename guesses the declared type from a file extension
func MimeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		return MimeText
	}
	return ""
}

// ExtractText converts an uploaded resume into plain text. Unsupported types
// and unreadable content come back as *Error values, never panics.
func ExtractText(data []byte, declaredType string) (string, error) {
	mediaType := declaredType
	if parsed, _, err := mime.ParseMediaType(declaredType); err == nil {
		mediaType = parsed
	}

	switch mediaType {
	case MimePDF:
		return extractPDFText(data)
	case MimeDOCX:
		return extractDOCXText(data)
	case MimeText:
		if !utf8.Valid(data) {
			return "", newError(KindParseError, nil, "text file is not valid UTF-8")
		}
		return string(data), nil
	}
	return "", &Error{
		Kind:    KindUnsupportedFormat,
		Message: fmt.Sprintf("unsupported file type %q: upload a PDF, DOCX or TXT file", declaredType),
	}
}

// ── PDF ───────────────────────────────────────────────

func extractPDFText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = newError(KindParseError, fmt.Errorf("%v", r), "failed to parse PDF")
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newError(KindParseError, err, "failed to parse PDF")
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			log.Warn().Int("page", i).Err(pageErr).Msg("No text extracted from PDF page")
			pageText = ""
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}

// ── DOCX ──────────────────────────────────────────────

func extractDOCXText(data []byte) (string, error) {
	// Materialize to a temp file so the archive is read the same way as a saved upload
	tmpFile, err := os.CreateTemp("", "resume-*.docx")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	archive, err := zip.OpenReader(tmpFile.Name())
	if err != nil {
		return "", newError(KindParseError, err, "failed to open DOCX")
	}
	defer archive.Close()

	for _, f := range archive.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", newError(KindParseError, err, "failed to read DOCX body")
		}
		defer rc.Close()

		text, err := documentXMLText(rc)
		if err != nil {
			return "", newError(KindParseError, err, "failed to parse DOCX body")
		}
		return text, nil
	}

	return "", newError(KindParseError, nil, "DOCX has no word/document.xml")
}

// documentXMLText walks WordprocessingML and keeps run text, emitting a
// newline per paragraph and line break and a tab per tab element.
func documentXMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
