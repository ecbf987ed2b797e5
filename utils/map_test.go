package utils

import "testing"

func TestReportStringKeepsOrder(t *testing.T) {
	m := KeyValsToMap("frame", 3, "delta", 0.5, 7, true, "dangling")
	if got := ReportString(m); got != "[frame=3 delta=0.5 7=true]" {
		t.Fatalf("unexpected report %q", got)
	}
	if ReportString(nil) != "[]" {
		t.Fatalf("expected empty report for nil map")
	}
}
