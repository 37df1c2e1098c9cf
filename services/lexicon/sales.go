package lexicon

import (
	"strings"

	"parcelgraph/lib/scrapers/leepa"
	"parcelgraph/lib/textutil"
)

// questionnaireNoise is boilerplate the site appends to clerk file
// numbers.
var questionnaireNoise = []string{
	"Sales Questionnaire Complete",
	"Complete Sales Questionnaire",
}

type salesEntities struct {
	transactions []SalesTransaction
	documents    []Document
	valuations   []PropertyValuation
	relations    []FinanceRelation
}

// mapSales expands every sales row into a transaction plus a finance
// relation back to the property. A deed document is attached when the
// clerk file cell links somewhere beyond the bare site root, a
// valuation when the sale carried a price, and the ownership set when
// the sale is the latest one.
func (s *Service) mapSales(rows []leepa.Row, propertyID string, ownershipIDs []string, latestSale string) salesEntities {
	var out salesEntities

	for _, row := range rows {
		date := row.Values["Date"]
		formatted := ""
		if date != "" {
			formatted, _ = textutil.ParseSaleDate(date)
		}
		price := fieldOr(row.Values, "Sale Price", "0")

		instrument := row.Values["ClerkFile Number"]
		for _, noise := range questionnaireNoise {
			instrument = strings.ReplaceAll(instrument, noise, "")
		}
		instrument = strings.TrimSpace(instrument)

		docID := ""
		links := row.Links["ClerkFile Number"]
		if len(links) > 0 && links[0] != leepa.SiteRoot {
			docID = s.newID()
			out.documents = append(out.documents, Document{
				ID:                 docID,
				Type:               typeDocument,
				InstrumentNumber:   instrument,
				DocumentIdentifier: "Warranty Deed",
				DocumentDate:       formatted,
				DocumentURL:        links[0],
			})
		}

		saleID := s.newID()
		out.transactions = append(out.transactions, SalesTransaction{
			ID:       saleID,
			Type:     typeSalesTransaction,
			Date:     formatted,
			Amount:   safeFloatField(price),
			Document: docID,
		})

		relation := FinanceRelation{
			ID:               s.newID(),
			Type:             typeFinanceRelation,
			Property:         propertyID,
			SalesTransaction: saleID,
		}
		if amount := textutil.SafeFloat(price, 0); amount > 0 {
			valuationID := s.newID()
			out.valuations = append(out.valuations, PropertyValuation{
				ID:          valuationID,
				Type:        typePropertyValuation,
				Date:        formatted,
				ActualValue: amount,
				MethodType:  "SalesTransaction",
			})
			relation.Valuation = valuationID
		}
		if formatted != "" && formatted == latestSale {
			relation.Ownerships = ownershipIDs
		}
		out.relations = append(out.relations, relation)
	}

	return out
}
