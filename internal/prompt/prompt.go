// Package prompt assembles the text sent to the analysis backend: a fixed
// strategist persona, a fixed directive list, and a composed user prompt
// holding the table rendering plus the user's question.
package prompt

import "strings"

// Persona is the system-level role description sent with every request,
// regardless of which provider handles it.
const Persona = "You are an expert Social Media Strategist AI. Your role is to analyze social media data provided from an Excel file and answer user questions with actionable insights and strategic recommendations."

// Directives is the fixed instruction list appended to the persona. The
// set is static configuration, identical for both providers.
var Directives = []string{
	"Carefully analyze the entire provided social media data.",
	"When answering the user's question, refer specifically to the data columns and content.",
	"If engagement metrics (likes, comments, shares, views, etc.) are present, use them to support your analysis of top/bottom performing posts.",
	"Identify key content themes and topics apparent in the data.",
	"Infer the brand's or individual's positioning based on the analyzed content.",
	"Provide strategic insights: what's working, what's not, potential opportunities, or new content angles.",
	"Structure your response in clear, well-organized markdown. Use headings, bullet points, and bold text for emphasis.",
	"Base your analysis *primarily* on the provided Excel data.",
}

// SystemPrompt joins the persona and directives into the single system
// message handed to a provider.
func SystemPrompt() string {
	var b strings.Builder
	b.WriteString(Persona)
	b.WriteString("\n\nInstructions:\n")
	for _, d := range Directives {
		b.WriteString("- ")
		b.WriteString(d)
		b.WriteString("\n")
	}
	return b.String()
}

// DefaultQuestion is the multi-part analytical prompt the question field
// is pre-filled with when the user has not typed their own.
const DefaultQuestion = `Key Analytical Outputs Required:

1. Content Themes
    A. Identify top recurring themes and topics
    B. Cluster similar content types (e.g., leadership quotes, industry news, campaign posts)

2. Performance Breakdown
    A. List the top 10 performing posts by engagement rate and total engagement.
        Include insights: Why did these work well? (e.g., timing, emotion, format, subject, CTA)
    B. List the bottom 10 posts by engagement rate.
        Include insights: What might have held them back? (e.g., off-brand, wrong format, poor timing)

3. Positioning Summary
    A. Based on the published content, what image or thought leadership is being projected — intentionally or unintentionally?
    B. If someone only followed this account, what would they think this brand or person stands for?

4. Strategic Insights
    A. Key Learnings: What works well in terms of timing, tone, format, or subject?
    B. Opportunities to Improve: Gaps, missed angles, inconsistent messaging, overused themes
    C. Recommend a sharper or clearer positioning strategy, if necessary
    D. Suggest new content themes or topics that align with audience interests but are not yet covered`
