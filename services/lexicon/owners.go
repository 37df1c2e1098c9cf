package lexicon

import (
	"strings"

	"parcelgraph/lib/addressutil"
)

// ownerEntities is everything one folio's owner rows expand into.
type ownerEntities struct {
	ownerships     []Ownership
	companies      []Company
	people         []Person
	addresses      []Address
	communications []Communication
	ownershipIDs   []string
}

// mapOwners expands each owner row into an owner node (person or
// company), a communication method, a mailing address and an
// ownership of the property. Every owner shares the strap row's
// mailing address fields and the latest sale date as acquisition
// date.
func (s *Service) mapOwners(folio, propertyID string, strapRow StrapRow, latestSale string) ownerEntities {
	var out ownerEntities

	for _, row := range s.ref.Owners(folio) {
		addressID := s.newID()
		out.addresses = append(out.addresses, Address{
			ID:           addressID,
			Type:         typeAddress,
			AddressLine1: strings.TrimSpace(strapRow.OwnerAddress1),
			AddressLine2: strings.TrimSpace(strapRow.OwnerAddress2),
			CityName:     addressutil.TitleWords(strapRow.OwnerCity),
			StateCode:    strings.TrimSpace(strapRow.OwnerState),
			PostalCode:   strings.TrimSpace(strapRow.OwnerZip),
			CountryName:  countryOrDefault(strapRow.OwnerCountry),
		})

		commID := s.newID()
		out.communications = append(out.communications, Communication{
			ID:             commID,
			Type:           typeCommunication,
			MailingAddress: addressID,
		})

		ownership := Ownership{
			Type:          typeOwnership,
			OwnedProperty: propertyID,
			DateAcquired:  latestSale,
		}

		if row.NameType == "person" {
			prefix := strings.TrimSpace(row.PrefixName)
			if prefix == "" {
				prefix = strings.TrimSpace(row.SurnamePrefix)
			}
			personID := s.newID()
			out.people = append(out.people, Person{
				ID:                  personID,
				Type:                typePerson,
				FirstName:           strings.TrimSpace(row.FirstName),
				LastName:            strings.TrimSpace(row.LastName),
				MiddleName:          strings.TrimSpace(row.MiddleName),
				PrefixName:          prefix,
				SuffixName:          strings.TrimSpace(row.SuffixName),
				RawName:             strings.TrimSpace(row.RawName),
				CommunicationMethod: commID,
			})
			ownership.OwnedBy = personID
		} else {
			companyID := s.newID()
			out.companies = append(out.companies, Company{
				ID:                  companyID,
				Type:                typeCompany,
				Name:                strings.TrimSpace(row.RawName),
				CommunicationMethod: commID,
			})
			ownership.OwnerCompany = companyID
		}

		ownership.ID = s.newID()
		out.ownerships = append(out.ownerships, ownership)
		out.ownershipIDs = append(out.ownershipIDs, ownership.ID)
	}

	return out
}

func countryOrDefault(country string) string {
	country = strings.TrimSpace(country)
	if country == "" {
		return "USA"
	}
	return country
}
