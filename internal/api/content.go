package api

import (
	"strings"

	"golang.org/x/net/html"
)

// VerseNumbers returns the verse numbers marked in chapter HTML, in document
// order. API.Bible marks each verse with <span class="v" data-number="N">.
func VerseNumbers(content string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var numbers []string
	seen := make(map[string]bool)
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || n.Data != "span" || !hasClass(n, "v") {
			continue
		}
		num := attr(n, "data-number")
		if num == "" {
			num = strings.TrimSpace(textOf(n))
		}
		if num == "" || seen[num] {
			continue
		}
		seen[num] = true
		numbers = append(numbers, num)
	}
	return numbers, nil
}

// PlainText strips markup and collapses whitespace.
func PlainText(content string) string {
	if !strings.Contains(content, "<") {
		return strings.Join(strings.Fields(content), " ")
	}
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return strings.Join(strings.Fields(content), " ")
	}
	return strings.Join(strings.Fields(textOf(doc)), " ")
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for d := range n.Descendants() {
		switch {
		case d.Type == html.TextNode:
			sb.WriteString(d.Data)
		case d.Type == html.ElementNode && blockElements[d.Data]:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

var blockElements = map[string]bool{"p": true, "br": true, "div": true}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
