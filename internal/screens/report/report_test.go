package report

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"levelcat/internal/api"
)

func testReport() *api.Report {
	return &api.Report{
		TestID: "t1",
		Theta:  0.42,
		SE:     0.31,
		TScore: 54.2,
		CEFR:   "B1",
		Domains: []api.DomainResult{
			{Domain: "vocabulary", AverageScore: 0.8, CEFR: "B2"},
			{Domain: "grammar", AverageScore: 0.6, CEFR: "B1"},
			{Domain: "listening", AverageScore: 0.5, CEFR: "A2"},
			{Domain: "english_in_use", AverageScore: 0.7, CEFR: "B1"},
		},
	}
}

func loadedScreen() *ReportScreen {
	s := New(nil, "t1")
	updated, _ := s.Update(reportLoadedMsg{Report: testReport()})
	return updated.(*ReportScreen)
}

func TestReportScreen_Title(t *testing.T) {
	s := New(nil, "t1")
	if s.Title() != "Report" {
		t.Errorf("Title = %q, want %q", s.Title(), "Report")
	}
}

func TestReportScreen_Display(t *testing.T) {
	s := loadedScreen()
	view := s.View(80, 24)
	if view == "" {
		t.Fatal("expected non-empty report view")
	}
	for _, want := range []string{"B1", "Vocabulary", "Grammar", "Listening", "English in Use"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReportScreen_DomainOrderPreserved(t *testing.T) {
	s := loadedScreen()
	view := s.View(80, 24)
	vocab := strings.Index(view, "Vocabulary")
	use := strings.Index(view, "English in Use")
	if vocab < 0 || use < 0 || vocab > use {
		t.Errorf("expected server domain order in view, got vocab=%d use=%d", vocab, use)
	}
}

func TestReportScreen_ErrorRetry(t *testing.T) {
	s := New(nil, "t1")
	updated, _ := s.Update(reportLoadedMsg{Err: &api.RequestError{Detail: "not finished"}})
	s = updated.(*ReportScreen)
	if s.errMsg != "not finished" {
		t.Errorf("errMsg = %q, want server detail", s.errMsg)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Error("expected a reload command on R")
	}
}

func TestReportScreen_Navigation_Esc(t *testing.T) {
	s := loadedScreen()
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected a command on Esc (pop)")
	}
}
