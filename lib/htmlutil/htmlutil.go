package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CellText is the text of a table cell with non-printable characters
// removed and whitespace collapsed, matching what the county site
// renders visually.
func CellText(sel *goquery.Selection) string {
	text := removeNonPrintable(sel.Text())
	text = innerWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

type Anchor struct {
	Name string
	Href string
}

// Anchors extracts the hyperlinks under sel, resolved against base.
// The county site emits malformed anchors whose visible text sits in
// the next sibling text node instead of inside the <a>, so when an
// anchor is empty the sibling text is used as its name. Anchors with
// no recoverable name at all are dropped.
func Anchors(sel *goquery.Selection, base *url.URL) []Anchor {
	var anchors []Anchor
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		link, err := url.Parse(href)
		if err != nil {
			return
		}

		name := strings.TrimSpace(a.Text())
		if name == "" && len(a.Nodes) > 0 && a.Nodes[0].NextSibling != nil {
			name = strings.TrimSpace(GetText(a.Nodes[0].NextSibling))
		}
		if name == "" {
			return
		}

		anchors = append(anchors, Anchor{
			Name: name,
			Href: base.ResolveReference(link).String(),
		})
	})
	return anchors
}
