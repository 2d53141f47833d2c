package models

// RunSummary holds the figures printed after a run over the final table.
type RunSummary struct {
	RunID              string
	TotalPostings      int
	ByCategory         map[Category]int
	AverageMinSalary   float64
	LowestMinSalary    float64
	HighestMaxSalary   float64
	TopPaying          *Posting
	PostingsByLocation map[string]int
	PostingsByCompany  map[string]int
}
