// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import "github.com/pdiddy/paw-tracker/pkg/types"

// Column headers of the tracking sheet. The names match the original
// hand-maintained workbook, "(auto)" marking classifier-filled columns.
const (
	ColEID       = "EID"
	ColDOI       = "DOI"
	ColTitle     = "Title"
	ColAuthors   = "Authors"
	ColSource    = "Source title"
	ColDocType   = "Document type"
	ColCitedBy   = "Cited by"
	ColCoverDate = "Cover date"
	ColYear      = "Year"
	ColAbstract  = "Abstract"
	ColKeywords  = "Author keywords"
	ColInclude   = "PAW (cleaned)"
	ColScreening = "Screening status"
	ColAddedAt   = "Added by bot at"
	ColDupDOI    = "Duplicate DOI"

	ColDomain   = "Domain (auto)"
	ColReactor  = "Reactor family (auto)"
	ColGas      = "Working gas (auto)"
	ColTime     = "Treatment time reported (auto)"
	ColPower    = "Power/energy reported (auto)"
	ColPH       = "Core6_pH (auto)"
	ColORP      = "Core6_ORP (auto)"
	ColCond     = "Core6_Conductivity/TDS (auto)"
	ColH2O2     = "Core6_H2O2 (auto)"
	ColNO2      = "Core6_NO2- (auto)"
	ColNO3      = "Core6_NO3- (auto)"
	ColCore6    = "Core6 count"
	ColEndpoint = "Endpoint (auto)"
)

// RequiredColumns lists every column the pipeline reads or writes, in the
// order a fresh workbook gets them. Loading a workbook that lacks some of
// these appends them empty (forward-compatible schema).
func RequiredColumns() []string {
	return []string{
		ColEID, ColDOI, ColTitle, ColAuthors, ColSource, ColDocType,
		ColCitedBy, ColCoverDate, ColYear, ColAbstract, ColKeywords,
		ColInclude, ColScreening, ColAddedAt, ColDupDOI,
		ColDomain, ColReactor, ColGas, ColTime, ColPower,
		ColPH, ColORP, ColCond, ColH2O2, ColNO2, ColNO3,
		ColCore6, ColEndpoint,
	}
}

// columnValue returns the row field stored under the given header, or the
// Extra bag entry for headers the schema does not know.
func columnValue(r types.Row, col string) string {
	switch col {
	case ColEID:
		return r.EID
	case ColDOI:
		return r.DOI
	case ColTitle:
		return r.Title
	case ColAuthors:
		return r.Authors
	case ColSource:
		return r.SourceTitle
	case ColDocType:
		return r.DocType
	case ColCitedBy:
		return r.CitedBy
	case ColCoverDate:
		return r.CoverDate
	case ColYear:
		return r.Year
	case ColAbstract:
		return r.Abstract
	case ColKeywords:
		return r.Keywords
	case ColInclude:
		return r.Include
	case ColScreening:
		return r.Screening
	case ColAddedAt:
		return r.AddedAt
	case ColDupDOI:
		return r.DuplicateDOI
	case ColDomain:
		return r.Domain
	case ColReactor:
		return r.Reactor
	case ColGas:
		return r.Gas
	case ColTime:
		return r.TimeReported
	case ColPower:
		return r.PowerReported
	case ColPH:
		return r.PH
	case ColORP:
		return r.ORP
	case ColCond:
		return r.Cond
	case ColH2O2:
		return r.H2O2
	case ColNO2:
		return r.NO2
	case ColNO3:
		return r.NO3
	case ColCore6:
		return r.Core6Count
	case ColEndpoint:
		return r.Endpoint
	default:
		return r.Extra[col]
	}
}

// setColumnValue stores a cell into the row field for the given header;
// unknown headers land in the Extra passthrough bag.
func setColumnValue(r *types.Row, col, val string) {
	switch col {
	case ColEID:
		r.EID = val
	case ColDOI:
		r.DOI = val
	case ColTitle:
		r.Title = val
	case ColAuthors:
		r.Authors = val
	case ColSource:
		r.SourceTitle = val
	case ColDocType:
		r.DocType = val
	case ColCitedBy:
		r.CitedBy = val
	case ColCoverDate:
		r.CoverDate = val
	case ColYear:
		r.Year = val
	case ColAbstract:
		r.Abstract = val
	case ColKeywords:
		r.Keywords = val
	case ColInclude:
		r.Include = val
	case ColScreening:
		r.Screening = val
	case ColAddedAt:
		r.AddedAt = val
	case ColDupDOI:
		r.DuplicateDOI = val
	case ColDomain:
		r.Domain = val
	case ColReactor:
		r.Reactor = val
	case ColGas:
		r.Gas = val
	case ColTime:
		r.TimeReported = val
	case ColPower:
		r.PowerReported = val
	case ColPH:
		r.PH = val
	case ColORP:
		r.ORP = val
	case ColCond:
		r.Cond = val
	case ColH2O2:
		r.H2O2 = val
	case ColNO2:
		r.NO2 = val
	case ColNO3:
		r.NO3 = val
	case ColCore6:
		r.Core6Count = val
	case ColEndpoint:
		r.Endpoint = val
	default:
		if val == "" {
			return
		}
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[col] = val
	}
}
