package lexicon

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// StrapRow is one line of the strap reference table, keyed by folio.
// It carries the owner mailing address and the decomposed site
// address the appraisal documents themselves do not include.
type StrapRow struct {
	FolioID          string `csv:"FolioID"`
	Strap            string `csv:"STRAP"`
	OwnerName        string `csv:"OwnerName"`
	Others           string `csv:"Others"`
	OwnerAddress1    string `csv:"OwnerAddress1"`
	OwnerAddress2    string `csv:"OwnerAddress2"`
	OwnerCity        string `csv:"OwnerCity"`
	OwnerState       string `csv:"OwnerState"`
	OwnerZip         string `csv:"OwnerZip"`
	OwnerCountry     string `csv:"OwnerCountry"`
	SiteStreetNumber string `csv:"SiteStreetNumber"`
	SiteStreetName   string `csv:"SiteStreetName"`
	SiteCity         string `csv:"SiteCity"`
	SiteZIP          string `csv:"SiteZIP"`
	SiteUnit         string `csv:"SiteUnit"`
}

// OwnerRow is one pre-parsed owner name, person or company, keyed by
// folio. A folio may have any number of owner rows.
type OwnerRow struct {
	FolioID       string `csv:"folio_id"`
	NameType      string `csv:"name_type"`
	FirstName     string `csv:"first_name"`
	MiddleName    string `csv:"middle_name"`
	LastName      string `csv:"last_name"`
	PrefixName    string `csv:"prefix_name"`
	SurnamePrefix string `csv:"surname_prefix"`
	SuffixName    string `csv:"suffix_name"`
	RawName       string `csv:"raw_name"`
}

// RefData holds both reference tables, loaded once and read-only
// afterwards. Folio keys are preserved verbatim, leading zeros
// included.
type RefData struct {
	straps map[string]StrapRow
	owners map[string][]OwnerRow
}

// LoadRefData reads the strap and owners CSVs. The owners path may be
// empty, in which case every folio simply has no owners.
func LoadRefData(strapPath, ownersPath string) (*RefData, error) {
	ref := &RefData{
		straps: map[string]StrapRow{},
		owners: map[string][]OwnerRow{},
	}

	var strapRows []StrapRow
	if err := readCSV(strapPath, &strapRows); err != nil {
		return nil, fmt.Errorf("read strap table: %w", err)
	}
	for _, row := range strapRows {
		ref.straps[row.FolioID] = row
	}

	if ownersPath != "" {
		var ownerRows []OwnerRow
		if err := readCSV(ownersPath, &ownerRows); err != nil {
			return nil, fmt.Errorf("read owners table: %w", err)
		}
		for _, row := range ownerRows {
			ref.owners[row.FolioID] = append(ref.owners[row.FolioID], row)
		}
	}

	return ref, nil
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.UnmarshalFile(f, out)
}

// Lookup returns the strap row for a folio. A folio missing from the
// table is excluded from conversion entirely.
func (r *RefData) Lookup(folio string) (StrapRow, bool) {
	row, ok := r.straps[folio]
	return row, ok
}

// Owners returns the owner rows for a folio, possibly none.
func (r *RefData) Owners(folio string) []OwnerRow {
	return r.owners[folio]
}
