package services

import (
	"testing"

	"job-aggregator/models"
)

func TestAggregateDedupesAcrossCategories(t *testing.T) {
	a := NewAggregator(newTestLogger())
	shared := posting("Financial Systems Analyst", "Acme", 70000, 80000)

	finance := tableOf(shared, posting("Treasury Analyst", "Beta", 65000, 75000))
	bais := tableOf(posting("Data Analyst", "Gamma", 60000, 70000), shared)
	accounting := tableOf(posting("Staff Accountant", "Delta", 55000, 65000))

	out := a.Aggregate(finance, bais, accounting)
	if out.Len() != 4 {
		t.Fatalf("rows: got %d, want 4", out.Len())
	}
	want := []string{"Financial Systems Analyst", "Treasury Analyst", "Data Analyst", "Staff Accountant"}
	for i, title := range want {
		if got := out.Rows[i].String(models.ColTitle); got != title {
			t.Errorf("row %d: got %q, want %q", i, got, title)
		}
	}
}

func TestAggregateSingleTableEqualsDedupe(t *testing.T) {
	a := NewAggregator(newTestLogger())
	in := tableOf(
		posting("a", "x", 60000, 70000),
		posting("a", "x", 60000, 70000),
		posting("b", "y", 60000, 70000),
	)

	got := a.Aggregate(in)
	want := DropDuplicates(in)
	if got.Len() != want.Len() {
		t.Fatalf("rows: got %d, want %d", got.Len(), want.Len())
	}
	for i := range want.Rows {
		if got.RowKey(got.Rows[i]) != want.RowKey(want.Rows[i]) {
			t.Errorf("row %d differs", i)
		}
	}
}

func TestAggregateKeepsNearDuplicates(t *testing.T) {
	a := NewAggregator(newTestLogger())
	out := a.Aggregate(
		tableOf(posting("a", "x", 60000, 70000)),
		tableOf(posting("a", "x", 60000, 71000)),
	)
	if out.Len() != 2 {
		t.Errorf("rows differing in one column must both survive, got %d", out.Len())
	}
}
