package domain

import "time"

// InterventionReportFilter narrows the interventions-by-period report.
// Zero values disable the corresponding filter.
type InterventionReportFilter struct {
	From       time.Time
	To         time.Time
	ClientName string
	Username   string
	TypeID     int64
}

// InterventionTotal is the summed quantity of one intervention type.
type InterventionTotal struct {
	TypeID   int64
	TypeName string
	Quantity int
	Rows     int
}

// ResourceTotal counts the detail rows a resource is assigned to.
type ResourceTotal struct {
	Username string
	Name     string
	Rows     int
}
