package lexicon

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"parcelgraph/lib/scrapers/leepa"

	"github.com/stretchr/testify/require"
)

// testService returns a converter with sequential ids so entity
// references can be asserted deterministically.
func testService(t *testing.T, ref *RefData, photosDir string) *Service {
	t.Helper()
	svc := NewService(ref, photosDir)
	var n atomic.Int64
	svc.newID = func() string {
		return fmt.Sprintf("id-%03d", n.Add(1))
	}
	return svc
}

func fixtureRefData() *RefData {
	return &RefData{
		straps: map[string]StrapRow{
			"10453180": {
				FolioID:          "10453180",
				Strap:            "10-44-22-33-00001.0010",
				OwnerAddress1:    "PO BOX 100",
				OwnerCity:        "FORT MYERS",
				OwnerState:       "FL",
				OwnerZip:         "33901",
				SiteStreetNumber: "123",
				SiteStreetName:   "NORTH MAIN STREET",
				SiteCity:         "FORT MYERS",
				SiteZIP:          "33901",
				SiteUnit:         "304",
			},
		},
		owners: map[string][]OwnerRow{
			"10453180": {
				{
					FolioID:       "10453180",
					NameType:      "person",
					FirstName:     "JANE",
					LastName:      "DOE",
					SurnamePrefix: "VAN",
					RawName:       "VAN DOE JANE",
				},
				{
					FolioID:  "10453180",
					NameType: "company",
					RawName:  "HARBOR HOLDINGS LLC",
				},
			},
		},
	}
}

func fixtureRecord() *leepa.Record {
	return &leepa.Record{
		Folio: "10453180",
		Strap: "10-44-22-33-00001.0010",
		Description: leepa.Fields{
			"Property Description":          "HARBOR TOWERS CONDO UNIT 304",
			"Gross Living Area":             "1,500",
			"Total Gross Building Area":     "2,000",
			"Total Bedrooms / Bathrooms":    "3/2.5",
			"1st Year Building on Tax Roll": "1998",
			"Lot":                           "4",
			"Block":                         "2",
			"Section":                       "10",
			"Township":                      "44",
			"Range":                         "22",
			"Latitude":                      "26.5629",
			"Longitude":                     "-81.9495",
		},
		Generic: map[string][]leepa.Row{
			salesSection: {
				{
					Values: leepa.Fields{
						"Date":             "06/15/2023",
						"Sale Price":       "250,000",
						"ClerkFile Number": "2023000123 Sales Questionnaire Complete",
					},
					Links: map[string][]string{
						"ClerkFile Number": {"https://www.leepa.org/Deed.aspx?id=1"},
					},
				},
				{
					Values: leepa.Fields{
						"Date":             "01/01/2020",
						"Sale Price":       "0",
						"ClerkFile Number": "View",
					},
					Links: map[string][]string{
						"ClerkFile Number": {"https://www.leepa.org"},
					},
				},
			},
			trimSection: {
				{Values: leepa.Fields{"Tax Year": "2023 TRIM", "Market Assessed": "150,000", "Taxable": "120,000", "Exemptions": "0"}},
				{Values: leepa.Fields{"Tax Year": "2021", "Market Assessed": "130,000", "Taxable": "100,000", "Exemptions": "0"}},
			},
		},
		Details: leepa.PropertyDetails{
			LandTracts: leepa.Fields{"Use Code": "0400", "Description": "CONDOMINIUM"},
		},
	}
}

func TestBuildOwners(t *testing.T) {
	svc := testService(t, fixtureRefData(), "")
	graph, ok := svc.Build(context.Background(), fixtureRecord())
	require.True(t, ok)

	require.Len(t, graph.People, 1)
	person := graph.People[0]
	require.Equal(t, "JANE", person.FirstName)
	require.Equal(t, "DOE", person.LastName)
	require.Equal(t, "VAN", person.PrefixName, "surname prefix fills an empty prefix")
	require.Equal(t, "VAN DOE JANE", person.RawName)

	require.Len(t, graph.Companies, 1)
	require.Equal(t, "HARBOR HOLDINGS LLC", graph.Companies[0].Name)

	require.Len(t, graph.Ownerships, 2)
	require.Equal(t, person.ID, graph.Ownerships[0].OwnedBy)
	require.Empty(t, graph.Ownerships[0].OwnerCompany)
	require.Equal(t, graph.Companies[0].ID, graph.Ownerships[1].OwnerCompany)
	require.Empty(t, graph.Ownerships[1].OwnedBy)
	for _, o := range graph.Ownerships {
		require.Equal(t, "2023-06-15", o.DateAcquired)
		require.Equal(t, graph.Properties[0].ID, o.OwnedProperty)
	}

	require.Len(t, graph.Communications, 2)
	require.Equal(t, graph.Communications[0].ID, person.CommunicationMethod)
	require.Equal(t, graph.Communications[1].ID, graph.Companies[0].CommunicationMethod)

	// two owner mailing addresses plus the site address
	require.Len(t, graph.Addresses, 3)
	mailing := graph.Addresses[0]
	require.Equal(t, graph.Communications[0].MailingAddress, mailing.ID)
	require.Equal(t, "PO BOX 100", mailing.AddressLine1)
	require.Equal(t, "Fort Myers", mailing.CityName)
	require.Equal(t, "USA", mailing.CountryName)
}

func TestBuildSiteAddress(t *testing.T) {
	svc := testService(t, fixtureRefData(), "")
	graph, ok := svc.Build(context.Background(), fixtureRecord())
	require.True(t, ok)

	site := graph.Addresses[len(graph.Addresses)-1]
	require.Equal(t, graph.Properties[0].Address, site.ID)
	require.Equal(t, "123", site.SequenceNumber)
	require.Equal(t, "N", site.StreetPreDirectional)
	require.Equal(t, "Main", site.StreetName)
	require.Equal(t, "ST", site.StreetSuffixType)
	require.Equal(t, "Fort Myers", site.CityName)
	require.Equal(t, "33901", site.PostalCode)
	require.Equal(t, "FL", site.StateCode)
	require.Equal(t, "Lee County", site.CountyName)
	require.Equal(t, "US", site.CountryCode)
	require.Equal(t, "304", site.UnitIdentifier)
	require.NotNil(t, site.Latitude)
	require.InDelta(t, 26.5629, *site.Latitude, 1e-9)
	require.NotNil(t, site.Longitude)
	require.InDelta(t, -81.9495, *site.Longitude, 1e-9)
}

func TestBuildSales(t *testing.T) {
	svc := testService(t, fixtureRefData(), "")
	graph, ok := svc.Build(context.Background(), fixtureRecord())
	require.True(t, ok)

	require.Len(t, graph.SalesTransactions, 2)
	deedSale := graph.SalesTransactions[0]
	require.Equal(t, "2023-06-15", deedSale.Date)
	require.Equal(t, 250000.0, deedSale.Amount)
	require.NotEmpty(t, deedSale.Document)

	require.Len(t, graph.Documents, 1)
	deed := graph.Documents[0]
	require.Equal(t, deedSale.Document, deed.ID)
	require.Equal(t, "2023000123", deed.InstrumentNumber, "questionnaire boilerplate must be stripped")
	require.Equal(t, "Warranty Deed", deed.DocumentIdentifier)
	require.Equal(t, "2023-06-15", deed.DocumentDate)
	require.Equal(t, "https://www.leepa.org/Deed.aspx?id=1", deed.DocumentURL)

	bareSale := graph.SalesTransactions[1]
	require.Equal(t, "2020-01-01", bareSale.Date)
	require.Equal(t, 0.0, bareSale.Amount)
	require.Empty(t, bareSale.Document, "a link to the bare site root is not a deed")

	require.Len(t, graph.PropertyValuations, 1, "only priced sales get a valuation")
	valuation := graph.PropertyValuations[0]
	require.Equal(t, 250000.0, valuation.ActualValue)
	require.Equal(t, "SalesTransaction", valuation.MethodType)
	require.Equal(t, "2023-06-15", valuation.Date)

	require.Len(t, graph.Relationships, 2)
	latest := graph.Relationships[0]
	require.Equal(t, graph.Properties[0].ID, latest.Property)
	require.Equal(t, deedSale.ID, latest.SalesTransaction)
	require.Equal(t, valuation.ID, latest.Valuation)
	ownershipIDs := []string{graph.Ownerships[0].ID, graph.Ownerships[1].ID}
	require.Equal(t, ownershipIDs, latest.Ownerships, "the latest sale carries the ownership set")

	earlier := graph.Relationships[1]
	require.Empty(t, earlier.Valuation)
	require.Empty(t, earlier.Ownerships)
}

func TestBuildSalesWithoutParseableDates(t *testing.T) {
	svc := testService(t, fixtureRefData(), "")
	rec := fixtureRecord()
	rec.Generic[salesSection] = []leepa.Row{
		{Values: leepa.Fields{"Date": "", "Sale Price": "100,000", "ClerkFile Number": "View"}},
		{Values: leepa.Fields{"Date": "pending", "Sale Price": "0", "ClerkFile Number": "View"}},
	}

	graph, ok := svc.Build(context.Background(), rec)
	require.True(t, ok)

	require.Len(t, graph.Relationships, 2)
	for i, rel := range graph.Relationships {
		require.Emptyf(t, rel.Ownerships,
			"relation %d must not carry ownerships when no sale date parses", i)
	}
	require.Len(t, graph.Ownerships, 2, "ownership nodes themselves are still emitted")
}

func TestBuildProperty(t *testing.T) {
	svc := testService(t, fixtureRefData(), "")
	graph, ok := svc.Build(context.Background(), fixtureRecord())
	require.True(t, ok)

	require.Len(t, graph.Properties, 1)
	p := graph.Properties[0]
	require.Equal(t, "10442233000010010", p.ParcelIdentifier)
	require.Equal(t, "HARBOR TOWERS CONDO UNIT 304", p.ConditionDescription)
	require.Equal(t, 2000, p.LotSizeSquareFeet)
	require.Equal(t, 1500, p.LivingSizeSquareFeet)
	require.Equal(t, 120000.0, p.TaxableValueAmount)
	require.Equal(t, 150000.0, p.AssessedValueAmount)
	require.Equal(t, 0.0, p.ExemptionAmount)
	require.Equal(t, "4", p.Lot)
	require.Equal(t, "2", p.Block)
	require.Equal(t, "Condominium", p.PropertyType)
	require.Equal(t, 3, p.BedroomCount)
	require.Equal(t, 2, p.FullBathroomCount)
	require.Equal(t, 1, p.HalfBathroomCount)
	require.Equal(t, 1998, p.StructureBuiltYear)
}

func TestBuildWholeBathroomCount(t *testing.T) {
	svc := testService(t, fixtureRefData(), "")
	rec := fixtureRecord()
	rec.Description["Total Bedrooms / Bathrooms"] = "3/2"

	graph, ok := svc.Build(context.Background(), rec)
	require.True(t, ok)
	p := graph.Properties[0]
	require.Equal(t, 2, p.FullBathroomCount)
	require.Nil(t, p.HalfBathroomCount)
}

func TestBuildExcludesUseCodes(t *testing.T) {
	cases := []struct {
		code     string
		excluded bool
	}{
		{"", true},
		{"0", true},
		{"300", true},
		{"900", true},
		{"901", true},
		{"9400", true},
		{"0400", false},
		{"100", false},
		{"90", false},
		{"91000", false},
	}
	for _, c := range cases {
		require.Equal(t, c.excluded, excludedUseCode(c.code), "use code %q", c.code)
	}

	svc := testService(t, fixtureRefData(), "")
	rec := fixtureRecord()
	rec.Details.LandTracts["Use Code"] = "900"
	_, ok := svc.Build(context.Background(), rec)
	require.False(t, ok)
}

func TestBuildExcludesUnknownFolio(t *testing.T) {
	svc := testService(t, fixtureRefData(), "")
	rec := fixtureRecord()
	rec.Folio = "99999999"
	_, ok := svc.Build(context.Background(), rec)
	require.False(t, ok)
}

func TestPropertyType(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"0400", "Condominium"},
		{"0100", "SingleFamily"},
		{"104", "SingleFamily"},
		{"200", "MobileHome"},
		{"800", "MultipleFamily"},
		{"700", "Other"},
		{"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, propertyType(c.code), "use code %q", c.code)
	}
}

func TestTrimValuesPicksLatestYear(t *testing.T) {
	rows := []leepa.Row{
		{Values: leepa.Fields{"Tax Year": "2021", "Taxable": "100", "Market Assessed": "110", "Exemptions": "5"}},
		{Values: leepa.Fields{"Tax Year": "2023 TRIM", "Taxable": "200", "Market Assessed": "210", "Exemptions": "0"}},
		{Values: leepa.Fields{"Tax Year": "no year here", "Taxable": "999"}},
	}
	taxable, assessed, exemptions := trimValues(rows)
	require.Equal(t, 200.0, taxable)
	require.Equal(t, 210.0, assessed)
	require.Equal(t, 0.0, exemptions)
}

func TestTrimValuesEmpty(t *testing.T) {
	taxable, assessed, exemptions := trimValues(nil)
	require.Nil(t, taxable)
	require.Nil(t, assessed)
	require.Nil(t, exemptions)
}

func TestConvertRecordPrunesOutput(t *testing.T) {
	svc := testService(t, fixtureRefData(), "")
	out, ok, err := svc.ConvertRecord(context.Background(), fixtureRecord())
	require.NoError(t, err)
	require.True(t, ok)

	var tree map[string]any
	require.NoError(t, json.Unmarshal(out, &tree))

	people := tree["people"].([]any)
	require.Len(t, people, 1)
	person := people[0].(map[string]any)
	require.Equal(t, "person", person["@type"])
	require.NotContains(t, person, "middle_name", "empty name parts must be pruned")
	require.NotContains(t, person, "suffix_name")

	sales := tree["sales_transactions"].([]any)
	require.Len(t, sales, 2)
	bareSale := sales[1].(map[string]any)
	require.NotContains(t, bareSale, "has_document")
	require.Equal(t, 0.0, bareSale["sales_transaction_amount"], "numeric zero survives pruning")

	prop := tree["properties"].([]any)[0].(map[string]any)
	require.NotContains(t, prop, "has_photos")
	require.Equal(t, "Condominium", prop["property_type"])
}

func TestRenderCollapsedGraph(t *testing.T) {
	out, ok, err := Render(&Graph{})
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, out)
}
