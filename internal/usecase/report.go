package usecase

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"DataDigest/internal/domain"
)

var reportPrinter = message.NewPrinter(language.English)

// BuildReport renders the plain-text run summary sent to chat channels.
func BuildReport(runID string, summary domain.Summary) string {
	var b strings.Builder

	b.WriteString(reportPrinter.Sprintf("DataDigest run %s\n", runID))
	b.WriteString(reportPrinter.Sprintf("Articles: %d", summary.Articles))
	b.WriteString(" (seed " + strconv.FormatInt(summary.Seed, 10) + ")\n")

	for _, c := range summary.Collections {
		b.WriteString(reportPrinter.Sprintf("- %s: %d records, %d/%d articles (%.1f%%), mean %s %.2f\n",
			c.Kind,
			c.Records,
			c.ArticlesCovered,
			summary.Articles,
			c.Coverage*100,
			c.EngagementMetric,
			c.MeanEngagement))
	}

	if !summary.GeneratedAt.IsZero() {
		b.WriteString("Generated at " + summary.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}

	return strings.TrimRight(b.String(), "\n")
}
