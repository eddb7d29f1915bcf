package extraction

import "strings"

// StripQuotedReplies removes quoted content from an email body. The
// body is truncated at the first marker of quoted or forwarded text:
// a ">"-prefixed line, a Gmail-style "On ... wrote:" attribution, an
// Outlook original-message divider, or a forwarded-message banner.
func StripQuotedReplies(body string) string {
	lines := strings.Split(body, "\n")
	var clean []string
	for _, line := range lines {
		if strings.HasPrefix(line, ">") {
			break
		}
		if strings.HasPrefix(line, "On ") && strings.Contains(line, " wrote:") {
			break
		}
		if strings.Contains(line, "---Original Message---") {
			break
		}
		if strings.Contains(line, "---------- Forwarded message") {
			break
		}
		clean = append(clean, line)
	}
	return strings.Join(clean, "\n")
}
