// Package merge splices a generated summary into Markdown note content.
package merge

import (
	"regexp"
	"strings"
)

var (
	// A level-1 or level-2 heading whose text is literally "summary",
	// any case, on its own line.
	summaryHeadingRe = regexp.MustCompile(`(?mi)^#{1,2}[ \t]+summary[ \t]*$`)
	// Any heading line, used to find where a section ends.
	anyHeadingRe = regexp.MustCompile(`(?m)^#{1,6}[ \t]`)
)

// InsertSummarySection inserts or replaces a "# Summary" section in
// content. A leading YAML frontmatter block is preserved and the splice
// happens only in the body. An existing level-1/2 "summary" heading
// (any case) is replaced together with its section, up to the next
// heading of any level; otherwise the block is inserted at the top of
// the body. Exactly one blank line separates the block from trailing
// content, and the block ends with a single newline when it is last.
// The operation is idempotent for a fixed summary text.
func InsertSummarySection(content, summary string) string {
	frontmatter, body := splitFrontmatter(content)
	block := "# Summary\n\n" + strings.TrimSpace(summary)

	var newBody string
	if loc := summaryHeadingRe.FindStringIndex(body); loc != nil {
		before := body[:loc[0]]
		rest := body[loc[1]:]
		after := ""
		if next := anyHeadingRe.FindStringIndex(rest); next != nil {
			after = rest[next[0]:]
		}
		newBody = splice(before, block, after)
	} else {
		newBody = splice("", block, strings.TrimSpace(body))
	}

	if frontmatter != "" {
		return strings.TrimRight(frontmatter, "\n") + "\n\n" + newBody
	}
	return strings.TrimLeft(newBody, "\n")
}

// splice joins before, the summary block, and after with normalized
// whitespace at the boundaries: one blank line on each populated side,
// a single trailing newline when the block ends the document.
func splice(before, block, after string) string {
	var b strings.Builder
	if trimmed := strings.TrimRight(before, " \t\n"); trimmed != "" {
		b.WriteString(trimmed)
		b.WriteString("\n\n")
	}
	b.WriteString(block)
	if after == "" {
		b.WriteString("\n")
	} else {
		b.WriteString("\n\n")
		b.WriteString(after)
	}
	return b.String()
}

// splitFrontmatter separates a leading YAML frontmatter block
// (delimited by --- lines) from the rest of the document. The
// frontmatter is returned verbatim, without its trailing newline run;
// absence yields an empty frontmatter and the full content as body.
func splitFrontmatter(content string) (frontmatter, body string) {
	if !strings.HasPrefix(content, "---\n") && content != "---" && !strings.HasPrefix(content, "---\r\n") {
		return "", content
	}
	firstLineEnd := strings.Index(content, "\n")
	if firstLineEnd < 0 {
		return "", content
	}
	rest := content[firstLineEnd+1:]
	idx := closingDelimiterIndex(rest)
	if idx < 0 {
		return "", content
	}
	end := firstLineEnd + 1 + idx
	lineEnd := strings.Index(content[end:], "\n")
	if lineEnd < 0 {
		return content, ""
	}
	return content[:end+lineEnd], content[end+lineEnd+1:]
}

// closingDelimiterIndex finds the start of the closing --- line in
// rest, or -1 when it never closes.
func closingDelimiterIndex(rest string) int {
	offset := 0
	for {
		line := rest[offset:]
		newline := strings.Index(line, "\n")
		var current string
		if newline < 0 {
			current = line
		} else {
			current = line[:newline]
		}
		if strings.TrimRight(current, "\r") == "---" {
			return offset
		}
		if newline < 0 {
			return -1
		}
		offset += newline + 1
	}
}
