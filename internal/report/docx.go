// Package report renders a completed job into a downloadable docx
// meeting report.
package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/meetwrap/meetwrap/internal/jobs"
)

const (
	fontName = "Calibri"
	fontSize = 11
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[-•*]\s+(.+)$`)
)

// WriteDocx renders the record's summary and insights into a styled
// docx file at outputPath. The record must be completed.
func WriteDocx(rec jobs.Record, outputPath string) error {
	if rec.Results == nil {
		return fmt.Errorf("job %s has no results", rec.ID)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), "Meeting Report: "+rec.Filename, true, 16)
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "Summary", true, 14)
	writeMarkdownish(doc, rec.Results.Summary)
	doc.AddParagraph("")

	writeMarkdownish(doc, rec.Results.Insights)
	doc.AddParagraph("")

	meta := fmt.Sprintf("Transcribed with %s, summarized with %s.",
		rec.Results.ModelsUsed.Transcription, rec.Results.ModelsUsed.Summary)
	addStyledRun(doc.AddParagraph(""), meta, false, 9)

	return doc.SaveTo(outputPath)
}

// writeMarkdownish renders the loosely markdown-formatted text produced
// by the pipeline: headings, bullets, bold runs, plain paragraphs.
func writeMarkdownish(doc *docx.RootDoc, text string) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 14
	case 2:
		return 13
	case 3:
		return 12
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = stripInlineMarkers(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText writes a line, emitting **bold** spans as bold runs.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(stripInlineMarkers(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(stripInlineMarkers(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func stripInlineMarkers(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
