package render

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// blockTags start a new line when opened or closed.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"pre": true, "hr": true, "table": true, "ul": true, "ol": true,
}

// HTMLToText flattens an HTML document, such as a server error page, to
// plain text. Script, style and head content are dropped. Runs of
// whitespace inside a line collapse to one space. A positive width wraps
// the result.
func HTMLToText(raw string, width int) string {
	if raw == "" {
		return ""
	}

	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	skip := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return Wrap(tidyLines(sb.String()), width)

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style" || tag == "head":
				if tt == xhtml.StartTagToken {
					skip++
				}
			case blockTags[tag]:
				sb.WriteString("\n")
			}

		case xhtml.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style" || tag == "head":
				if skip > 0 {
					skip--
				}
			case blockTags[tag]:
				sb.WriteString("\n")
			}

		case xhtml.TextToken:
			if skip > 0 {
				continue
			}
			// Text tokens are already entity-decoded by Token.
			sb.WriteString(tokenizer.Token().Data)
		}
	}
}

// tidyLines collapses whitespace within each line and drops blank lines.
func tidyLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Wrap performs simple word wrapping to the given width. Lines indented by
// four spaces are left alone.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.HasPrefix(paragraph, "    ") {
			result.WriteString(paragraph)
			result.WriteString("\n")
			continue
		}
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := len(word)
			if i > 0 && lineLen+1+wlen > width {
				result.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wlen
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}
