// Package email renders notification messages shared by the email senders.
package email

import (
	"fmt"
	"html"
	"strings"

	"bolx/internal/port"
)

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// BatchCompleted renders the completion notice for a finished batch: the
// processing summary followed by the failed files and their notes.
func BatchCompleted(report port.BatchReport) Message {
	s := report.Summary
	subject := fmt.Sprintf("BOL extraction finished: %s (%d/%d successful)", report.Batch.Name, s.Successful, s.Total)

	rows := [][2]string{
		{"Total files", fmt.Sprint(s.Total)},
		{"Successful extractions", fmt.Sprint(s.Successful)},
		{"Failed extractions", fmt.Sprint(s.Failed)},
		{"Text extractions", fmt.Sprint(s.TextExtractions)},
		{"OCR extractions", fmt.Sprint(s.OCRExtractions)},
		{"High confidence", fmt.Sprint(s.HighConfidence)},
		{"Medium confidence", fmt.Sprint(s.MediumConfidence)},
		{"Low confidence", fmt.Sprint(s.LowConfidence)},
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Batch %q (%s) has finished processing.\n\n", report.Batch.Name, report.Batch.ID)
	for _, r := range rows {
		fmt.Fprintf(&text, "%s: %s\n", r[0], r[1])
	}
	if len(report.Failures) > 0 {
		text.WriteString("\nFailed files:\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&text, "- %s: %s\n", f.FileName, f.Notes)
		}
	}

	var body strings.Builder
	body.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
`)
	fmt.Fprintf(&body, "  <h2 style=\"color: #333;\">%s</h2>\n", html.EscapeString(report.Batch.Name))
	body.WriteString("  <table style=\"border-collapse: collapse;\">\n")
	for _, r := range rows {
		fmt.Fprintf(&body, "    <tr><td style=\"padding: 4px 12px 4px 0;\">%s</td><td><strong>%s</strong></td></tr>\n", r[0], r[1])
	}
	body.WriteString("  </table>\n")
	if len(report.Failures) > 0 {
		body.WriteString("  <h3 style=\"color: #b91c1c;\">Failed files</h3>\n  <ul>\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&body, "    <li><strong>%s</strong>: %s</li>\n", html.EscapeString(f.FileName), html.EscapeString(f.Notes))
		}
		body.WriteString("  </ul>\n")
	}
	body.WriteString("</body>\n</html>")

	return Message{Subject: subject, Text: text.String(), HTML: body.String()}
}
