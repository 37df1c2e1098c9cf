package leepa

import (
	"regexp"
	"strings"

	"parcelgraph/lib/htmlutil"
	"parcelgraph/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var lastInspectionRegex = regexp.MustCompile(`Last Inspection Date:\s*(\d{2}/\d{2}/\d{4})`)

// parsePropertyAttributes collects the top-of-page description panel,
// the appraisal attribute tables, the named viewer links and the
// structure image into one flat section.
func parsePropertyAttributes(doc *goquery.Document) Fields {
	data := Fields{}

	doc.Find("div.sectionSubTitle").EachWithBreak(func(_ int, subtitle *goquery.Selection) bool {
		if !strings.Contains(subtitle.Text(), "Property Description") {
			return true
		}
		panel := subtitle.NextFiltered("div.textPanel")
		if panel.Length() > 0 {
			data["Property Description"] = textutil.CollapseSpace(panel.Text())
		}
		return false
	})

	doc.Find("table.appraisalDetails").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		header := row.Find("th").First()
		if cells.Length() == 0 || header.Length() == 0 {
			return
		}
		data[htmlutil.CellText(header)] = htmlutil.CellText(cells.First())
	})

	// the location table interleaves two header rows with two value
	// rows instead of co-locating them
	location := doc.Find("table.appraisalDetailsLocation").First()
	if location.Length() > 0 {
		rows := location.Find("tr")
		if rows.Length() >= 4 {
			zipRowPair(data, rows.Eq(0), rows.Eq(1))
			zipRowPair(data, rows.Eq(2), rows.Eq(3))
		}
	}

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		text := htmlutil.CellText(link)
		switch {
		case strings.Contains(text, "Google Maps"):
			data["Google Map Link"] = href
		case strings.Contains(text, "Tax Map Viewer"):
			data["Tax Map Link"] = href
		case strings.Contains(text, "Pictometry Aerial Viewer"):
			data["Pictometry Aerial Viewer"] = href
		}
	})

	if img := doc.Find("div.imgDisplay a[href*='/dotnet/photo/photo.aspx']").First(); img.Length() > 0 {
		if href, ok := img.Attr("href"); ok && href != "" {
			data["Image of Structure"] = absoluteURL(href)
		}
	}

	if taxMap := doc.Find("#divDisplayParcelTaxMap img[src*='TaxMapImage.aspx']").First(); taxMap.Length() > 0 {
		if src, ok := taxMap.Attr("src"); ok && src != "" {
			data["Building Aerial Viewer"] = strings.ReplaceAll(src, "&amp;", "&")
		}
	}

	if inspection := doc.Find("div.LastInspectionDiv").First(); inspection.Length() > 0 {
		if m := lastInspectionRegex.FindStringSubmatch(inspection.Text()); m != nil {
			data["Last Inspection Date"] = m[1]
		}
	}

	return data
}

// zipRowPair merges one header row and the value row below it into
// fields.
func zipRowPair(data Fields, headerRow, valueRow *goquery.Selection) {
	var headers []string
	headerRow.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.CellText(th))
	})
	valueRow.Find("td").Each(func(i int, td *goquery.Selection) {
		if i < len(headers) && headers[i] != "" {
			data[headers[i]] = htmlutil.CellText(td)
		}
	})
}

// parseGarbageDetails reads the solid waste roll box. The collection
// days live in a separate row with a fixed three-column contract.
func parseGarbageDetails(doc *goquery.Document) Fields {
	table := doc.Find("#GarbageDetails table.detailsTable").First()
	if table.Length() == 0 {
		return nil
	}
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil
	}

	data := Fields{}
	if rows.Length() >= 2 {
		zipRowPair(data, rows.Eq(0), rows.Eq(1))
	}

	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !strings.Contains(row.Text(), "Collection Days") {
			return true
		}
		tds := row.Find("td")
		if tds.Length() >= 3 {
			data["Collection Days - Garbage"] = htmlutil.CellText(tds.Eq(0))
			data["Collection Days - Recycling"] = htmlutil.CellText(tds.Eq(1))
			data["Collection Days - Horticulture"] = htmlutil.CellText(tds.Eq(2))
		}
		return false
	})

	if len(data) == 0 {
		return nil
	}
	return data
}

// floodValueLabels are the fixed column positions of the elevation
// table's third row; its header row is not co-located with the values.
var floodValueLabels = []string{"Community", "Panel", "Version", "Date", "Evacuation Zone"}

func parseFloodDetails(doc *goquery.Document) Fields {
	table := doc.Find("#ElevationDetails table.detailsTable").First()
	if table.Length() == 0 {
		return nil
	}
	rows := table.Find("tr")
	if rows.Length() < 3 {
		return nil
	}

	data := Fields{}
	if link := rows.Eq(0).Find("a[href]").First(); link.Length() > 0 {
		if href, ok := link.Attr("href"); ok {
			data["Flood Insurance Link"] = href
		}
	}

	values := rows.Eq(2).Find("td")
	for i, label := range floodValueLabels {
		if i < values.Length() {
			data[label] = htmlutil.CellText(values.Eq(i))
		}
	}
	return data
}

// parseRealPropertyTags reads the mobile-home tag tables: two
// header/value row pairs per table at fixed offsets.
func parseRealPropertyTags(doc *goquery.Document) []Fields {
	var entries []Fields
	doc.Find("#RPDetails table.appraisalAttributes").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 5 {
			return
		}
		entry := Fields{}
		zipTagPair(entry, rows.Eq(1), rows.Eq(2))
		zipTagPair(entry, rows.Eq(3), rows.Eq(4))
		if len(entry) > 0 {
			entries = append(entries, entry)
		}
	})
	return entries
}

func zipTagPair(entry Fields, headerRow, valueRow *goquery.Selection) {
	var headers []string
	headerRow.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.CellText(th))
	})
	valueRow.Find("td").Each(func(i int, td *goquery.Selection) {
		if i >= len(headers) || headers[i] == "" {
			return
		}
		// the site renders this header inconsistently between pages
		header := strings.ReplaceAll(headers[i], "DCA/HUD", "DCA / HUD")
		entry[header] = htmlutil.CellText(td)
	})
}

func absoluteURL(href string) string {
	link, err := siteBase.Parse(href)
	if err != nil {
		return href
	}
	return link.String()
}
