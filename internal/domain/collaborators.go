package domain

import "time"

// The entities below are owned by the surrounding data-management system.
// The engine reads them through directory lookups and never mutates them.

// Activity is a template defining a recurring kind of work.
type Activity struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	StandardTime float64     `json:"standard_time"` // hours a task is expected to take
	Criticality  Criticality `json:"criticality"`
	Duration     float64     `json:"duration"`  // estimated duration in days
	Frequency    int         `json:"frequency"` // recurrences per year
	StartDate    time.Time   `json:"start_date"`
}

// Operator is a human employee tasks are assigned to.
type Operator struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// Customer is the party a task is performed for.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
