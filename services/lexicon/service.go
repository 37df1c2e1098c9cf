package lexicon

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"parcelgraph/lib/addressutil"
	"parcelgraph/lib/scrapers/leepa"
	"parcelgraph/lib/textutil"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
)

const (
	salesSection = "Sales / Transactions"
	trimSection  = "Property Values / Exemptions / TRIM Notices"
)

// Service converts parsed appraisal records into entity graphs. The
// reference tables and the photo manifest directory are read-only, so
// one Service is safe to share across worker goroutines.
type Service struct {
	ref       *RefData
	photosDir string
	newID     func() string
}

// NewService builds a converter over the given reference tables.
// photosDir may be empty when no photo manifests are available.
func NewService(ref *RefData, photosDir string) *Service {
	return &Service{
		ref:       ref,
		photosDir: photosDir,
		newID: func() string {
			return ulid.Make().String()
		},
	}
}

// Build assembles the entity graph for one record. ok is false when
// the record is excluded from conversion: its folio is missing from
// the strap table, or its land-tract use code marks it as vacant,
// governmental or otherwise out of scope.
func (s *Service) Build(ctx context.Context, rec *leepa.Record) (_ *Graph, ok bool) {
	_, span := tracer.Start(ctx, "Build")
	defer span.End()
	span.SetAttributes(attribute.String("folio", rec.Folio))

	useCode := rec.Details.LandTracts["Use Code"]
	if excludedUseCode(useCode) {
		return nil, false
	}
	strapRow, found := s.ref.Lookup(rec.Folio)
	if !found {
		return nil, false
	}

	propertyID := s.newID()
	siteAddressID := s.newID()

	salesRows := rec.Generic[salesSection]
	latestSale := latestSaleDate(salesRows)

	owners := s.mapOwners(rec.Folio, propertyID, strapRow, latestSale)
	sales := s.mapSales(salesRows, propertyID, owners.ownershipIDs, latestSale)
	photoDocs, photoIDs := s.loadPhotos(ctx, rec.Folio)

	property := s.buildProperty(rec, strapRow, propertyID, siteAddressID, useCode, photoIDs)
	addresses := append(owners.addresses, s.siteAddress(rec, strapRow, siteAddressID))

	return &Graph{
		Companies:          owners.companies,
		People:             owners.people,
		Communications:     owners.communications,
		Ownerships:         owners.ownerships,
		PropertyValuations: sales.valuations,
		Properties:         []Property{property},
		Documents:          append(photoDocs, sales.documents...),
		Addresses:          addresses,
		SalesTransactions:  sales.transactions,
		Relationships:      sales.relations,
	}, true
}

// excludedUseCode reports land-tract use codes outside the
// residential scope: missing, vacant/institutional ("300", "900",
// "0") or the 9xx/9xxx government block.
func excludedUseCode(code string) bool {
	switch code {
	case "", "300", "900", "0":
		return true
	}
	return strings.HasPrefix(code, "9") && (len(code) == 3 || len(code) == 4)
}

func (s *Service) buildProperty(rec *leepa.Record, strapRow StrapRow, propertyID, addressID, useCode string, photoIDs []string) Property {
	desc := rec.Description

	strap := rec.Strap
	if strap == "" {
		strap = strapRow.Strap
	}

	taxable, assessed, exemptions := trimValues(rec.Generic[trimSection])

	property := Property{
		ID:                   propertyID,
		Type:                 typeProperty,
		ParcelIdentifier:     addressutil.CanonicalParcelID(strap),
		ConditionDescription: desc["Property Description"],
		LotSizeSquareFeet:    safeIntField(grossBuildingArea(desc)),
		LivingSizeSquareFeet: safeIntField(desc["Gross Living Area"]),
		TaxableValueAmount:   taxable,
		AssessedValueAmount:  assessed,
		ExemptionAmount:      exemptions,
		Lot:                  desc["Lot"],
		Section:              desc["Section"],
		Block:                desc["Block"],
		Township:             desc["Township"],
		Range:                desc["Range"],
		Address:              addressID,
		PropertyType:         propertyType(useCode),
		Photos:               photoIDs,
	}

	bedsAndBaths := fieldOr(desc, "Total Bedrooms / Bathrooms", "0/0")
	if bedsAndBaths != "0" {
		if beds, baths, found := strings.Cut(bedsAndBaths, "/"); found {
			bathCount := textutil.SafeFloat(baths, 0)
			full := int(bathCount)
			property.BedroomCount = safeIntField(beds)
			property.FullBathroomCount = full
			if bathCount > float64(full) {
				property.HalfBathroomCount = 1
			}
		}
	}

	if year := desc["1st Year Building on Tax Roll"]; year != "" && year != "N/A" {
		property.StructureBuiltYear = safeIntField(year)
	}

	return property
}

// grossBuildingArea returns the value of the first description key
// mentioning "gross building area"; the site varies the exact label
// between document vintages.
func grossBuildingArea(desc leepa.Fields) string {
	var keys []string
	for k := range desc {
		if strings.Contains(strings.ToLower(k), "gross building area") {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return desc[keys[0]]
}

// siteAddress decomposes the strap row's site fields into a
// normalized address. Coordinates come from the document itself and
// are attached only when they parse.
func (s *Service) siteAddress(rec *leepa.Record, strapRow StrapRow, id string) Address {
	parts := addressutil.SplitStreetName(strapRow.SiteStreetName)

	addr := Address{
		ID:                    id,
		Type:                  typeAddress,
		SequenceNumber:        strings.TrimSpace(strapRow.SiteStreetNumber),
		StreetName:            parts.Name,
		StreetPreDirectional:  parts.PreDirectional,
		StreetPostDirectional: parts.PostDirectional,
		StreetSuffixType:      parts.SuffixType,
		CityName:              addressutil.TitleWords(strapRow.SiteCity),
		PostalCode:            strings.TrimSpace(strapRow.SiteZIP),
		StateCode:             "FL",
		CountyName:            "Lee County",
		CountryCode:           "US",
		UnitIdentifier:        strings.TrimSpace(strapRow.SiteUnit),
	}
	if v, err := strconv.ParseFloat(rec.Description["Latitude"], 64); err == nil {
		addr.Latitude = &v
	}
	if v, err := strconv.ParseFloat(rec.Description["Longitude"], 64); err == nil {
		addr.Longitude = &v
	}
	return addr
}

var trimYearRegex = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// trimValues picks the TRIM row with the greatest 4-digit year in its
// "Tax Year" cell (first seen wins a tie) and reads the three value
// columns from it. All three are nil when no row carries a year.
func trimValues(rows []leepa.Row) (taxable, assessed, exemptions any) {
	bestYear := 0
	var best leepa.Fields
	for _, row := range rows {
		match := trimYearRegex.FindString(row.Values["Tax Year"])
		if match == "" {
			continue
		}
		year, _ := strconv.Atoi(match)
		if best == nil || year > bestYear {
			bestYear = year
			best = row.Values
		}
	}
	if best == nil {
		return nil, nil, nil
	}
	return safeFloatField(fieldOr(best, "Taxable", "0")),
		safeFloatField(fieldOr(best, "Market Assessed", "0")),
		safeFloatField(fieldOr(best, "Exemptions", "0"))
}

// latestSaleDate is the ISO form of the newest parseable sale date,
// or "" when no row has one.
func latestSaleDate(rows []leepa.Row) string {
	dates := make([]string, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.Values["Date"])
	}
	latest, ok := textutil.LatestSaleDate(dates)
	if !ok {
		return ""
	}
	return latest
}

func fieldOr(values leepa.Fields, key, def string) string {
	if v, ok := values[key]; ok {
		return v
	}
	return def
}

// safeIntField and safeFloatField mirror textutil.SafeInt/SafeFloat
// but degrade to the empty string, which prunes away, instead of a
// numeric default that would survive into the output.
func safeIntField(s string) any {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return ""
	}
	return v
}

func safeFloatField(s string) any {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return ""
	}
	return v
}

// ConvertRecord runs the full per-document pipeline: build, prune,
// serialize. ok is false when the record is excluded or prunes down
// to nothing.
func (s *Service) ConvertRecord(ctx context.Context, rec *leepa.Record) (out []byte, ok bool, err error) {
	graph, ok := s.Build(ctx, rec)
	if !ok {
		return nil, false, nil
	}
	return Render(graph)
}

// Render serializes a graph with placeholder values pruned. ok is
// false when pruning collapses the graph entirely.
func Render(g *Graph) (out []byte, ok bool, err error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, false, err
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, false, err
	}
	cleaned := Prune(tree)
	if cleaned == nil {
		return nil, false, nil
	}
	out, err = json.MarshalIndent(cleaned, "", "  ")
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}
