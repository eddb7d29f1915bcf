package gmail

import (
	"encoding/base64"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"
)

// ExtractBody pulls a plain-text body out of a message payload.
// text/plain parts win over text/html; HTML is stripped to text when it
// is all the message carries. Nested multipart containers are searched
// recursively.
func ExtractBody(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}

	// Single-part message with inline data.
	if len(payload.Parts) == 0 {
		text := decodePart(payload)
		if strings.HasPrefix(payload.MimeType, "text/html") {
			text = stripHTMLTags(text)
		}
		return strings.TrimSpace(text)
	}

	if text := findPart(payload.Parts, "text/plain"); text != "" {
		return strings.TrimSpace(text)
	}
	if html := findPart(payload.Parts, "text/html"); html != "" {
		return strings.TrimSpace(stripHTMLTags(html))
	}
	return ""
}

// findPart walks the part tree for the first part of the given MIME type.
func findPart(parts []*gmailapi.MessagePart, mimeType string) string {
	for _, part := range parts {
		if strings.HasPrefix(part.MimeType, mimeType) {
			if text := decodePart(part); text != "" {
				return text
			}
		}
		if len(part.Parts) > 0 {
			if text := findPart(part.Parts, mimeType); text != "" {
				return text
			}
		}
	}
	return ""
}

// decodePart decodes the base64url body data of a leaf part.
func decodePart(part *gmailapi.MessagePart) string {
	if part.Body == nil || part.Body.Data == "" {
		return ""
	}
	data, err := base64.URLEncoding.DecodeString(part.Body.Data)
	if err != nil {
		data, err = base64.RawURLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			return ""
		}
	}
	return string(data)
}

// stripHTMLTags removes markup, keeping text content. Script and style
// elements are dropped wholesale.
func stripHTMLTags(html string) string {
	for _, tag := range []string{"script", "style"} {
		for {
			start := strings.Index(strings.ToLower(html), "<"+tag)
			if start == -1 {
				break
			}
			end := strings.Index(strings.ToLower(html[start:]), "</"+tag+">")
			if end == -1 {
				html = html[:start]
				break
			}
			html = html[:start] + html[start+end+len(tag)+3:]
		}
	}

	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}

	text := b.String()
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&#39;", "'")

	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
