// Package extract turns uploaded documents into plain text for the chat
// upload channel.
//
// The format is chosen by sniffing the content first and falling back to the
// declared file name:
//
//   - PDF: text of every page, pages joined by newlines
//   - DOCX (and .doc by name): non-empty paragraphs joined by newlines
//   - anything else: the bytes as UTF-8 with invalid sequences dropped
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// maxDocumentXML caps the decompressed size of word/document.xml.
	maxDocumentXML = 64 << 20
)

// ErrNoDocumentBody is returned for a DOCX archive without word/document.xml.
var ErrNoDocumentBody = errors.New("docx: missing word/document.xml")

// Extractor converts raw file bytes into text.
type Extractor interface {
	Extract(data []byte, name string) (string, error)
}

// Format names a supported input format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// Default is the production Extractor.
type Default struct{}

// Extract implements Extractor.
func (Default) Extract(data []byte, name string) (string, error) {
	switch Detect(data, name) {
	case FormatPDF:
		return PDFText(data)
	case FormatDOCX:
		return DOCXText(data)
	}
	return PlainText(data), nil
}

// Detect picks the handler for data. Content sniffing wins over the name.
func Detect(data []byte, name string) Format {
	m := mimetype.Detect(data)
	switch {
	case m.Is(mimePDF):
		return FormatPDF
	case m.Is(mimeDOCX):
		return FormatDOCX
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx", ".doc":
		return FormatDOCX
	}
	return FormatText
}

// PlainText decodes data as UTF-8, dropping invalid byte sequences.
func PlainText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

// PDFText returns the plain text of every page joined by newlines.
func PDFText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: %w", err)
	}
	n := r.NumPage()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			parts = append(parts, "")
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf: page %d: %w", i, err)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

// DOCXText returns the non-empty paragraphs of a WordprocessingML document
// joined by newlines.
func DOCXText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}
	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", ErrNoDocumentBody
	}
	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}
	defer rc.Close()

	paras, err := paragraphs(io.LimitReader(rc, maxDocumentXML))
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}
	return strings.Join(paras, "\n"), nil
}

// paragraphs walks document.xml and collects the text of each <w:p>.
// Runs (<w:t>) are concatenated; <w:tab> and <w:br> map to tab and newline.
func paragraphs(r io.Reader) ([]string, error) {
	const wNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	dec := xml.NewDecoder(r)
	var (
		out    []string
		cur    strings.Builder
		inPara bool
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "t":
				inText = true
			case "tab":
				if inPara {
					cur.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := cur.String(); s != "" {
					out = append(out, s)
				}
				inPara = false
			}
		case xml.CharData:
			if inText && inPara {
				cur.Write(t)
			}
		}
	}
	return out, nil
}
