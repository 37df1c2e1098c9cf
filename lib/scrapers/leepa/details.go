package leepa

import (
	"strings"

	"parcelgraph/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// groupState names the bucket a grouped-table scan is currently
// routing rows into. The source markup signals transitions with
// single-cell subheader rows, so the scan is a small state machine
// rather than a header-driven parse.
type groupState int

const (
	stateNoGroup groupState = iota
	stateCharacteristics
	stateSubareas
	stateFeatures
	stateUnitDetail
	stateUnitSubareas
)

// buildingTransitions maps recognized subheader text to the state it
// opens. "Building N of M" rows are handled separately since they
// open a whole new group, not a bucket.
var buildingTransitions = []struct {
	marker string
	state  groupState
}{
	{"building characteristics", stateCharacteristics},
	{"building subareas", stateSubareas},
	{"building features", stateFeatures},
}

var condoTransitions = []struct {
	marker string
	state  groupState
}{
	{"unit detail", stateUnitDetail},
	{"unit subareas", stateUnitSubareas},
}

// parsePropertyDetails reads the compound "Property Details" section:
// land tracts, land features, the building groups and, when present,
// the condominium block.
func parsePropertyDetails(doc *goquery.Document) PropertyDetails {
	var details PropertyDetails

	box := doc.Find("#PropertyDetailsCurrent").First()
	if box.Length() > 0 {
		section := box.Find("div.innerBox").First()
		if section.Length() > 0 {
			parseLandSections(section, &details)
		}
		details.Buildings = parseBuildings(box)
	}

	doc.Find("div.innerBox").EachWithBreak(func(_ int, inner *goquery.Selection) bool {
		if !strings.Contains(inner.Find("div.sectionSubTitle").Text(), "Condominium") {
			return true
		}
		details.Condo = parseCondo(inner)
		return false
	})

	return details
}

// parseLandSections handles the two grouped tables whose first row is
// a single-cell group label.
func parseLandSections(section *goquery.Selection, details *PropertyDetails) {
	section.Find("table.appraisalAttributes").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return
		}
		label := rows.First().Find("th")
		if label.Length() != 1 {
			return
		}
		header := strings.ToLower(htmlutil.CellText(label))

		switch {
		case strings.Contains(header, "land tracts") && rows.Length() >= 3:
			tracts := Fields{}
			zipRowPair(tracts, rows.Eq(1), rows.Eq(2))
			details.LandTracts = tracts

		case strings.Contains(header, "land features") && rows.Length() > 2:
			rows.Slice(2, rows.Length()).Each(func(_ int, row *goquery.Selection) {
				tds := row.Find("td")
				if tds.Length() != 3 {
					return
				}
				details.LandFeatures = append(details.LandFeatures, Feature{
					Description: htmlutil.CellText(tds.Eq(0)),
					YearAdded:   htmlutil.CellText(tds.Eq(1)),
					Units:       htmlutil.CellText(tds.Eq(2)),
				})
			})
		}
	})
}

// parseBuildings scans the building tables with an explicit state
// machine: a "Building N of M" subheader opens a new building, bucket
// subheaders switch the current state, everything else is routed by
// that state.
func parseBuildings(box *goquery.Selection) []Building {
	var buildings []Building
	var current *Building
	state := stateNoGroup

	box.Find("table.appraisalAttributes").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			if header, ok := subheaderText(row); ok {
				if strings.Contains(header, "building") && strings.Contains(header, "of") && !isBucketHeader(header) {
					if current != nil {
						buildings = append(buildings, *current)
					}
					current = &Building{}
					state = stateNoGroup
					return
				}
				state = stateNoGroup
				for _, t := range buildingTransitions {
					if strings.Contains(header, t.marker) {
						state = t.state
						break
					}
				}
				return
			}

			if current == nil {
				return
			}

			if row.Find("img").Length() > 0 {
				attachRowPhotos(row, &current.Photos)
			}

			values := cellTexts(row.Find("td"))
			switch state {
			case stateCharacteristics:
				if len(values) >= 4 {
					fillCharacteristics(&current.Characteristics, values)
				}
			case stateSubareas:
				if len(values) >= 3 {
					current.Subareas = append(current.Subareas, subareaFrom(values))
				}
			case stateFeatures:
				if len(values) >= 3 {
					current.Features = append(current.Features, Feature{
						Description: values[0],
						YearAdded:   values[len(values)-2],
						Units:       values[len(values)-1],
					})
				}
			}
		})
	})

	if current != nil {
		buildings = append(buildings, *current)
	}
	return buildings
}

func isBucketHeader(header string) bool {
	for _, t := range buildingTransitions {
		if strings.Contains(header, t.marker) {
			return true
		}
	}
	return false
}

// fillCharacteristics routes a 4-value row into one of the two fixed
// field sets: the first occurrence carries the improvement fields,
// the second the bedroom fields. Positional contract of the source
// markup.
func fillCharacteristics(c *Characteristics, values []string) {
	if c.ImprovementType == "" {
		c.ImprovementType = values[0]
		c.ModelType = values[1]
		c.Stories = values[2]
		c.LivingUnits = values[3]
		return
	}
	c.Bedrooms = values[0]
	c.Bathrooms = values[1]
	c.YearBuilt = values[2]
	c.EffectiveYearBuilt = values[3]
}

// parseCondo reads the condominium block: complex info, amenities and
// the unit table, which uses the same subheader state machine as the
// building tables.
func parseCondo(section *goquery.Selection) *Condo {
	condo := &Condo{}

	tables := section.Find("table.detailsTableLeft")
	if tables.Length() > 0 {
		condo.ComplexInfo = Fields{}
		tables.First().Find("tr").Each(func(_ int, row *goquery.Selection) {
			ths := row.Find("th")
			tds := row.Find("td")
			n := min(ths.Length(), tds.Length())
			for i := 0; i < n; i++ {
				condo.ComplexInfo[htmlutil.CellText(ths.Eq(i))] = htmlutil.CellText(tds.Eq(i))
			}
		})
		if len(condo.ComplexInfo) == 0 {
			condo.ComplexInfo = nil
		}
	}

	section.Find("div.items").First().Find("span").Each(func(_ int, span *goquery.Selection) {
		if text := htmlutil.CellText(span); text != "" {
			condo.Amenities = append(condo.Amenities, text)
		}
	})

	if tables.Length() > 1 {
		parseCondoUnit(tables.Eq(1), condo)
	}

	return condo
}

func parseCondoUnit(unitTable *goquery.Selection, condo *Condo) {
	state := stateNoGroup

	unitTable.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if header, ok := subheaderText(row); ok {
			state = stateNoGroup
			for _, t := range condoTransitions {
				if strings.Contains(header, t.marker) {
					state = t.state
					break
				}
			}
			return
		}

		ths := row.Find("th")
		tds := row.Find("td")
		switch state {
		case stateUnitDetail:
			// two label/value pairs per row
			if ths.Length() == 2 && tds.Length() == 2 {
				if condo.UnitDetail == nil {
					condo.UnitDetail = Fields{}
				}
				condo.UnitDetail[htmlutil.CellText(ths.Eq(0))] = htmlutil.CellText(tds.Eq(0))
				condo.UnitDetail[htmlutil.CellText(ths.Eq(1))] = htmlutil.CellText(tds.Eq(1))
			}
		case stateUnitSubareas:
			values := cellTexts(tds)
			if len(values) >= 3 {
				condo.UnitSubareas = append(condo.UnitSubareas, subareaFrom(values))
			}
		}
	})

	unitTable.Find("div.condo-flex-container img").Each(func(_ int, img *goquery.Selection) {
		attachPhoto(img, &condo.Photos)
	})
}

// subheaderText returns the lower-cased text of a row's single
// subheader cell, when the row is one.
func subheaderText(row *goquery.Selection) (string, bool) {
	ths := row.Find("th")
	if ths.Length() != 1 || !ths.First().HasClass("subheader") {
		return "", false
	}
	return strings.ToLower(htmlutil.CellText(ths.First())), true
}

// attachRowPhotos scans every image in a row; the front photo and the
// floor plan are told apart by their url paths.
func attachRowPhotos(row *goquery.Selection, photos *Photos) {
	row.Find("img").Each(func(_ int, img *goquery.Selection) {
		attachPhoto(img, photos)
	})
}

func attachPhoto(img *goquery.Selection, photos *Photos) {
	src, ok := img.Attr("src")
	if !ok || src == "" {
		return
	}
	full := absoluteURL(src)

	switch {
	case strings.Contains(src, "photo.aspx"):
		photos.FrontPhoto = full
		if date := photoDateNear(img); date != "" {
			photos.PhotoDate = date
		}
	case strings.Contains(src, "FloorPlan"):
		photos.Footprint = append(photos.Footprint, full)
	}
}

// photoDateNear looks for the "Photo Date" caption the site renders
// in a div adjacent to the photo's wrapper.
func photoDateNear(img *goquery.Selection) string {
	wrapper := img.ParentsFiltered("div").First()
	if wrapper.Length() == 0 {
		return ""
	}

	date := ""
	wrapper.NextAllFiltered("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		for _, line := range strings.Split(div.Text(), "\n") {
			line = strings.TrimSpace(line)
			if strings.Contains(line, "Photo Date") {
				date = line
				return false
			}
		}
		return true
	})
	return date
}

func subareaFrom(values []string) Subarea {
	return Subarea{
		Description:    values[0],
		HeatedUnderAir: values[len(values)-2],
		AreaSqFt:       values[len(values)-1],
	}
}

func cellTexts(cells *goquery.Selection) []string {
	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		out = append(out, htmlutil.CellText(cell))
	})
	return out
}
