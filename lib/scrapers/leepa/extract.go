// Package leepa parses the Lee County property appraiser's per-folio
// HTML documents into an intermediate record, section by section. The
// parser has no knowledge of the lexicon schema; it only untangles
// the site's nested tabular markup.
package leepa

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"parcelgraph/lib/htmlutil"
	"parcelgraph/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// SiteRoot is the origin every relative link in a document resolves
// against.
const SiteRoot = "https://www.leepa.org"

var siteBase, _ = url.Parse(SiteRoot)

// cells containing these substrings are site chrome, not data, and
// are dropped from their row.
var noiseCellText = []string{
	"View Recorded Plat at LeeClerk.org",
	"freeProperty Fraud Alert",
}

// a generic row is kept only if at least one of its values is outside
// this set.
var placeholderValues = map[string]bool{
	"":    true,
	".":   true,
	"-":   true,
	"N/A": true,
}

// Parse reads one appraisal document and produces its intermediate
// Record. folio is the identifier the document was fetched under and
// is used when the markup itself does not carry one. The only
// whole-document failure is unreadable markup; individual sections
// that are missing or truncated come back empty.
func Parse(ctx context.Context, r io.Reader, folio string) (*Record, error) {
	ctx, span := tracer.Start(ctx, "Parse")
	defer span.End()
	span.SetAttributes(attribute.String("folio", folio))

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse markup for folio %s: %w", folio, err)
	}

	rec := &Record{
		Folio:       folio,
		Description: parsePropertyAttributes(doc),
		Generic:     map[string][]Row{},
	}

	doc.Find("div.box").Each(func(_ int, box *goquery.Selection) {
		title := box.Find("div.sectionTitle").First()
		if title.Length() == 0 {
			return
		}
		name := sectionName(title)
		lower := strings.ToLower(name)

		switch {
		case strings.Contains(lower, "property details"):
			// compound section, handled below
			return
		case strings.Contains(lower, "alternate address information"):
			rec.AlternateAddress = parseAlternateAddress(box)
			return
		case strings.Contains(lower, "property data"):
			rec.Strap, rec.Folio = parsePropertyData(box, folio)
			rec.SiteAddresses = parseAddressHistory(doc)
			return
		}

		rows := parseGenericTables(box)
		if len(rows) > 0 {
			rec.Generic[name] = rows
		}
	})

	rec.Garbage = parseGarbageDetails(doc)
	rec.Flood = parseFloodDetails(doc)
	rec.RealPropertyTags = parseRealPropertyTags(doc)
	rec.Details = parsePropertyDetails(doc)

	return rec, nil
}

// sectionName is the box title with the trailing generation timestamp
// ("Generated on ...") stripped.
func sectionName(title *goquery.Selection) string {
	if link := title.Find("a.nonLinkLinks").First(); link.Length() > 0 {
		return htmlutil.CellText(link)
	}
	text := htmlutil.CellText(title)
	text, _, _ = strings.Cut(text, "Generated on")
	return strings.TrimSpace(text)
}

// parsePropertyData pulls the STRAP and folio identifiers out of the
// free text of the "Property Data" box. Both sit between literal
// markers; when the markup carries neither, the caller-supplied folio
// wins.
func parsePropertyData(box *goquery.Selection, fallbackFolio string) (strap, folio string) {
	text := htmlutil.CellText(box)
	lower := strings.ToLower(text)
	if strings.Contains(lower, "strap:") && strings.Contains(lower, "folio id:") {
		if _, after, ok := strings.Cut(text, "STRAP:"); ok {
			strapPart, _, _ := strings.Cut(after, "Folio ID:")
			strap = strings.TrimSpace(strapPart)
		}
		if _, after, ok := strings.Cut(text, "Folio ID:"); ok {
			fields := strings.Fields(after)
			if len(fields) > 0 {
				folio = fields[0]
			}
		}
	}
	if folio == "" {
		folio = fallbackFolio
	}
	if strings.EqualFold(strap, "none") {
		strap = ""
	}
	return strap, folio
}

// parseAlternateAddress flattens the alternate address table (or the
// box's visible text when there is no table) into one line.
func parseAlternateAddress(box *goquery.Selection) string {
	table := box.Find("table.detailsTable").First()
	if table.Length() == 0 {
		return textutil.CollapseSpace(box.Text())
	}
	var parts []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		row.Find("td").Each(func(_ int, td *goquery.Selection) {
			if text := htmlutil.CellText(td); text != "" {
				parts = append(parts, text)
			}
		})
	})
	return strings.Join(parts, " ")
}

// parseAddressHistory reads the site address history table (the first
// detailsTable in the document). Rows whose every column except
// "Maintenance Date" is empty are dropped.
func parseAddressHistory(doc *goquery.Document) []Fields {
	table := doc.Find("table.detailsTable").First()
	if table.Length() == 0 {
		return nil
	}
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil
	}

	var headers []string
	rows.First().Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.CellText(th))
	})

	var results []Fields
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != len(headers) {
			return
		}
		entry := Fields{}
		empty := true
		cells.Each(func(i int, td *goquery.Selection) {
			value := htmlutil.CellText(td)
			entry[headers[i]] = value
			if value != "" && headers[i] != "Maintenance Date" {
				empty = false
			}
		})
		if empty {
			return
		}
		entry["county_name"] = "lee"
		results = append(results, entry)
	})
	return results
}

// parseGenericTables converts every table in a titled box into rows
// keyed by the table's own headers. Header-less tables fall back to
// positional Col_N keys.
func parseGenericTables(box *goquery.Selection) []Row {
	var section []Row
	box.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return
		}

		var headers []string
		start := 0
		rows.First().Find("th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, htmlutil.CellText(th))
		})
		if len(headers) > 0 {
			start = 1
		}

		rows.Slice(start, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			parsed, ok := parseGenericRow(row, headers)
			if ok {
				section = append(section, parsed)
			}
		})
	})
	return section
}

func parseGenericRow(row *goquery.Selection, headers []string) (Row, bool) {
	cells := row.Find("td, th")

	anyValue := false
	cells.Each(func(_ int, cell *goquery.Selection) {
		if htmlutil.CellText(cell) != "" {
			anyValue = true
		}
	})
	if !anyValue {
		return Row{}, false
	}

	parsed := Row{Values: Fields{}}
	keep := false
	cells.Each(func(i int, cell *goquery.Selection) {
		header := fmt.Sprintf("Col_%d", i)
		if i < len(headers) {
			header = headers[i]
		}
		text := htmlutil.CellText(cell)
		if textutil.ContainsAny(text, noiseCellText) {
			return
		}
		parsed.Values[header] = text
		if !placeholderValues[text] {
			keep = true
		}

		anchors := htmlutil.Anchors(cell, siteBase)
		if len(anchors) > 0 {
			links := make([]string, len(anchors))
			for j, a := range anchors {
				links[j] = a.Href
			}
			if parsed.Links == nil {
				parsed.Links = map[string][]string{}
			}
			parsed.Links[header] = links
		}
	})
	return parsed, keep
}
