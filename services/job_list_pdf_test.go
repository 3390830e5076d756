package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/johnfercher/go-tree/node"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/core"
)

// jobListTexts builds the job list without generating it and returns every
// text value in the maroto tree, in order.
func jobListTexts(t *testing.T, data JobListData) []string {
	t.Helper()
	m := buildJobList(maroto.New(), data, fixedNow)

	var out []string
	var walk func(n *node.Node[core.Structure])
	walk = func(n *node.Node[core.Structure]) {
		if d := n.GetData(); d.Type == "text" {
			if s, ok := d.Value.(string); ok {
				out = append(out, s)
			}
		}
		for _, next := range n.GetNexts() {
			walk(next)
		}
	}
	walk(m.GetStructure())
	return out
}

func containsText(texts []string, s string) bool {
	for _, v := range texts {
		if v == s {
			return true
		}
	}
	return false
}

func TestComposeJobList_Basic(t *testing.T) {
	data := JobListData{
		ManagerName: "Sam Patel",
		Jobs: []JobListRow{
			{Address: "12 Harbour St, Manly", ClientName: "R. Nguyen"},
			{Address: "3 Ridge Rd, Terrey Hills", ClientName: "K. Walsh"},
		},
	}

	doc, err := ComposeJobList(data, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("ComposeJobList() error = %v", err)
	}
	assertPDF(t, doc.Bytes())
	if n := pageCount(t, doc.Bytes()); n != 1 {
		t.Errorf("page count = %d, want 1", n)
	}
	if got := doc.Filename(); got != "Sam-Patel-job-list.pdf" {
		t.Errorf("Filename() = %q", got)
	}
	if doc.Kind != KindJobList {
		t.Errorf("Kind = %q, want %q", doc.Kind, KindJobList)
	}
}

func TestComposeJobList_Empty(t *testing.T) {
	doc, err := ComposeJobList(JobListData{ManagerName: "Sam Patel"})
	if err != nil {
		t.Fatalf("ComposeJobList() error = %v", err)
	}
	assertPDF(t, doc.Bytes())
	if n := pageCount(t, doc.Bytes()); n != 1 {
		t.Errorf("page count = %d, want 1", n)
	}

	texts := jobListTexts(t, JobListData{ManagerName: "Sam Patel"})
	for _, s := range []string{emptyJobsText, "Jobs: 0", "ADDITIONAL NOTES"} {
		if !containsText(texts, s) {
			t.Errorf("empty job list is missing %q", s)
		}
	}
}

func TestBuildJobList_Contents(t *testing.T) {
	data := JobListData{
		ManagerName: "Sam Patel",
		Jobs: []JobListRow{
			{Address: "12 Harbour St, Manly", ClientName: "R. Nguyen"},
			{Address: "3 Ridge Rd, Terrey Hills", ClientName: "K. Walsh"},
		},
	}

	texts := jobListTexts(t, data)

	for _, s := range []string{
		"JOB LIST", "Manager: Sam Patel", "Generated: 14 March 2025", "Jobs: 2",
		"12 Harbour St, Manly", "R. Nguyen", "3 Ridge Rd, Terrey Hills", "K. Walsh",
	} {
		if !containsText(texts, s) {
			t.Errorf("job list is missing %q", s)
		}
	}
	if containsText(texts, emptyJobsText) {
		t.Error("placeholder drawn for a non-empty job list")
	}
	rules := 0
	for _, s := range texts {
		if s == notesRule {
			rules++
		}
	}
	if want := len(data.Jobs) + additionalRows; rules != want {
		t.Errorf("ruled lines = %d, want %d", rules, want)
	}
}

// A long address wraps inside its row; the row must grow to hold every line
// so the notes rule beneath it stays clear.
func TestJobRowMetrics_HeightFitsWrappedText(t *testing.T) {
	metrics := newJobRowMetrics()
	long := strings.TrimSpace(strings.Repeat("Very Long Street Name ", 8))

	tests := []struct {
		name      string
		row       JobListRow
		wantLines int
	}{
		{"short", JobListRow{Address: "12 Harbour St", ClientName: "R. Nguyen"}, 1},
		{"empty", JobListRow{}, 1},
		{"long address", JobListRow{Address: long, ClientName: "R. Nguyen"}, metrics.lines(long, "B", jobAddressWidth)},
		{"long client", JobListRow{Address: "1 A St", ClientName: long}, metrics.lines(long, "", jobClientWidth)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := metrics.height(tt.row)
			if h < jobRowMinHeight {
				t.Errorf("height = %v, below minimum %v", h, jobRowMinHeight)
			}
			need := jobRowTop + float64(tt.wantLines)*jobRowLineSpacing
			if h < need {
				t.Errorf("height = %v cannot hold %d lines (%v mm)", h, tt.wantLines, need)
			}
		})
	}

	if n := metrics.lines(long, "B", jobAddressWidth); n < 3 {
		t.Errorf("long address measured as %d lines, want it to wrap", n)
	}
	if n := metrics.lines("Café Élan – Søndergård", "", jobClientWidth); n != 1 {
		t.Errorf("accented client measured as %d lines, want 1", n)
	}
	if h := metrics.height(JobListRow{Address: long}); h <= jobRowMinHeight {
		t.Errorf("long address row height = %v, want it to grow past %v", h, jobRowMinHeight)
	}
}

func TestComposeJobList_LongAddress(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("Very Long Street Name ", 8))
	data := JobListData{
		ManagerName: "Sam Patel",
		Jobs:        []JobListRow{{Address: long, ClientName: "Harbour Cafe"}},
	}

	doc, err := ComposeJobList(data)
	if err != nil {
		t.Fatalf("ComposeJobList() error = %v", err)
	}
	assertPDF(t, doc.Bytes())
}

func TestComposeJobList_ManyJobsPaginate(t *testing.T) {
	data := JobListData{ManagerName: "Sam Patel"}
	for i := 0; i < 60; i++ {
		data.Jobs = append(data.Jobs, JobListRow{
			Address:    fmt.Sprintf("%d Example St, Mona Vale", i+1),
			ClientName: fmt.Sprintf("Client %d", i+1),
		})
	}

	doc, err := ComposeJobList(data)
	if err != nil {
		t.Fatalf("ComposeJobList() error = %v", err)
	}
	assertPDF(t, doc.Bytes())
	if n := pageCount(t, doc.Bytes()); n < 2 {
		t.Errorf("page count = %d, want rows to flow onto more pages", n)
	}
}
