package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"stock-news-briefer/internal/briefer/dto"
)

// runeBoundaryBefore returns the largest byte index not past limit that
// falls on a rune boundary of s.
func runeBoundaryBefore(s string, limit int) int {
	if limit >= len(s) {
		return len(s)
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}

// FormatBriefsForTelegram formats briefs into Markdown messages for
// Telegram, splitting so no message exceeds the Telegram length limit.
func FormatBriefsForTelegram(briefs []*dto.Brief) []string {
	if len(briefs) == 0 {
		return []string{"No stock briefs were generated this run."}
	}

	const maxLen = 4090
	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		var header string
		if part == 1 {
			header = "📰 *Stock Price Movement Briefs* 📰\n\n"
		} else {
			header = fmt.Sprintf("---*Stock Price Movement Briefs, Part %d*---\n\n", part)
		}
		currentMessage.WriteString(header)
	}

	startNewPart()

	for _, brief := range briefs {
		var entryBuilder strings.Builder
		entryBuilder.WriteString(fmt.Sprintf("📈 *- - - - - %s - - - - -*\n", brief.Query))
		entryBuilder.WriteString(fmt.Sprintf("💬 %s\n", brief.Summary))

		if len(brief.Sources) > 0 {
			entryBuilder.WriteString("🔗 *Sources:*\n")
			for _, source := range brief.Sources {
				marker := "✅"
				if !source.Extracted {
					marker = "⚠️"
				}
				entryBuilder.WriteString(fmt.Sprintf("%s [%s](%s)\n", marker, source.Title, source.URL))
			}
		}
		entryBuilder.WriteString("\n")

		entry := entryBuilder.String()
		if currentMessage.Len()+len(entry) > maxLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		// A single entry can blow past the limit on its own when a
		// summary is very long. Hard-split it across parts, keeping
		// multi-byte runes intact.
		for currentMessage.Len()+len(entry) > maxLen {
			cut := runeBoundaryBefore(entry, maxLen-currentMessage.Len())
			currentMessage.WriteString(entry[:cut])
			entry = entry[cut:]
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entry)
	}

	if currentMessage.Len() > 0 {
		messages = append(messages, currentMessage.String())
	}

	return messages
}
