// Package docx renders an analysis report into a minimal .docx (OOXML)
// container: one title heading followed by the report text.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	// ReportTitle is the heading of every exported analysis document.
	ReportTitle = "Social Media Data Analysis"

	// FileName is the fixed download name for exported reports.
	FileName = "social_media_analysis.docx"

	// MIMEType is the standard content type for .docx documents.
	MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// WriteReport generates a .docx file holding the report body under the
// standard title, returning the raw bytes.
func WriteReport(body string) ([]byte, error) {
	return Write(ReportTitle, body)
}

// Write generates a .docx file with a single heading and the full text
// as its body.
func Write(title, body string) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/_rels/document.xml.rels", docRelsXML},
		{"word/document.xml", documentXML(title, body)},
	}

	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("could not create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize .docx archive: %w", err)
	}

	return buf.Bytes(), nil
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`

// documentXML builds word/document.xml: a Title-styled heading paragraph
// followed by one paragraph holding the body. Line breaks in the body
// become soft breaks inside the paragraph so the text survives intact.
func documentXML(title, body string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	b.WriteString(`<w:body>`)

	b.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr>`)
	b.WriteString(`<w:r><w:t xml:space="preserve">`)
	b.WriteString(xmlEscape(title))
	b.WriteString(`</w:t></w:r></w:p>`)

	b.WriteString(`<w:p><w:r>`)
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(xmlEscape(line))
		b.WriteString(`</w:t>`)
	}
	b.WriteString(`</w:r></w:p>`)

	b.WriteString(`</w:body>`)
	b.WriteString(`</w:document>`)
	return b.String()
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
