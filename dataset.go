package main

// Record is the unit of data exchanged with every backend. ID is assigned by
// the dataset, never by a backend, and correlates the same logical record
// across all of them.
type Record struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Value string `json:"value" db:"value"`
}
