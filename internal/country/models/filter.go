package models

// SortOrder orders List results by estimated GDP.
type SortOrder string

const (
	SortUnsorted SortOrder = "unsorted"
	SortGDPDesc  SortOrder = "gdp_desc"
	SortGDPAsc   SortOrder = "gdp_asc"
)

// ParseSortOrder maps a query value to a SortOrder. Unrecognized values fall
// back to SortUnsorted.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(raw) {
	case SortGDPDesc:
		return SortGDPDesc
	case SortGDPAsc:
		return SortGDPAsc
	default:
		return SortUnsorted
	}
}

// ListFilter narrows List. Nil fields place no constraint.
type ListFilter struct {
	Region   *string
	Currency *string
	Sort     SortOrder
}
