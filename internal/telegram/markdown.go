package telegram

import (
	"strings"
	"unicode/utf8"
)

const fence = "```"

// SplitMessage splits text into chunks of at most maxLen runes, preferring
// newline boundaries. A chunk that ends inside a code block is closed and
// the block is reopened in the next chunk.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	// room for the closing and reopening fences
	budget := maxLen - len(fence)*2 - 2
	if budget < 1 {
		budget = maxLen
	}

	var parts []string
	inBlock := false
	for text != "" {
		prefix := ""
		if inBlock {
			prefix = fence + "\n"
		}

		runes := []rune(text)
		if len(runes)+len([]rune(prefix)) <= maxLen {
			parts = append(parts, prefix+text)
			break
		}

		splitAt := budget
		chunk := string(runes[:budget])
		if nl := strings.LastIndex(chunk, "\n"); nl > len(chunk)/2 {
			splitAt = utf8.RuneCountInString(chunk[:nl+1])
		}

		part := string(runes[:splitAt])
		if strings.Count(part, fence)%2 == 1 {
			inBlock = !inBlock
		}
		if inBlock {
			part = strings.TrimRight(part, "\n") + "\n" + fence
		}

		parts = append(parts, prefix+part)
		text = string(runes[splitAt:])
	}

	return parts
}

// SplitPlain splits text into chunks of at most maxLen runes, preferring
// newline boundaries. Joining the chunks gives text back unchanged.
func SplitPlain(text string, maxLen int) []string {
	runes := []rune(text)
	var parts []string
	for len(runes) > maxLen {
		cut := maxLen
		for i := maxLen - 1; i > maxLen/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(parts, string(runes))
}

// FixMarkdown closes an unterminated code block and unterminated inline
// code spans so Telegram accepts the message.
func FixMarkdown(text string) string {
	if strings.Count(text, fence)%2 != 0 {
		text += "\n" + fence
	}
	return fixInlineCode(text)
}

func fixInlineCode(text string) string {
	var builder strings.Builder
	inBlock := false
	inlineOpen := false

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && string(runes[i:i+3]) == fence {
			if inlineOpen {
				builder.WriteRune('`')
				inlineOpen = false
			}
			inBlock = !inBlock
			builder.WriteString(fence)
			i += 2
			continue
		}

		if !inBlock && runes[i] == '`' {
			inlineOpen = !inlineOpen
		}
		builder.WriteRune(runes[i])
	}

	if inlineOpen {
		builder.WriteRune('`')
	}
	return builder.String()
}

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// EscapeMarkdown escapes user supplied text for the legacy Markdown mode.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
