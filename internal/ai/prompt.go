package ai

import (
	"strings"
	"time"
)

// buildSystemPrompt assembles the instructions shared by the image and text
// extraction paths. The taxonomy text arrives preformatted from the category
// hierarchy service and is used verbatim.
func buildSystemPrompt(taxonomyText string, asOfDate time.Time) string {
	parts := []string{
		"You are an assistant that logs household expenses.",
		"If the input describes a purchase or payment, call the " + logExpenseFunction + " function exactly once with its details.",
		"If no expense can be identified, do not call any function.",
		"Choose category and subcategory from the household's list below; pick the closest match.",
		"Use ISO-8601 dates (YYYY-MM-DD).",
		"If the input states no date, use " + asOfDate.Format("2006-01-02") + ".",
		"Amounts are positive decimal numbers without currency symbols.",
		"Keep notes short and factual.",
	}
	return strings.Join(parts, " ") + "\n\nAvailable categories and subcategories:\n" + taxonomyText
}

func buildImageUserPrompt() string {
	return "Extract the expense from this receipt image."
}

func buildTextUserPrompt(transcript string) string {
	return "Extract the expense from the following text:\n\n" + transcript
}
