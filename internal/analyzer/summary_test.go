package analyzer

import (
	"fmt"
	"testing"
)

func patchFact(name string) PackageFact {
	return PackageFact{
		Name:           name,
		CurrentVersion: "1.0.0",
		LatestVersion:  "1.0.1",
		Kind:           KindProduction,
	}
}

func TestSummarize_AllPatchSetIsHealthy(t *testing.T) {
	var assessments []PackageAssessment
	for i := 0; i < 5; i++ {
		assessments = append(assessments, Classify(patchFact(fmt.Sprintf("pkg-%d", i)), nil, false))
	}

	score, summary := Summarize(assessments)

	if score != 100 {
		t.Errorf("security score = %d, want 100", score)
	}
	if summary.Recommendation != recommendRoutine {
		t.Errorf("recommendation = %q, want the routine-maintenance message", summary.Recommendation)
	}
	if summary.SafeCount != 5 {
		t.Errorf("safe count = %d, want 5", summary.SafeCount)
	}
}

func TestSecurityScore_DeductionsCompound(t *testing.T) {
	assessments := []PackageAssessment{
		{Advisories: []SecurityAdvisory{
			{Severity: SeverityCritical},
			{Severity: SeverityCritical},
		}},
		{Advisories: []SecurityAdvisory{
			{Severity: SeverityHigh},
			{Severity: SeverityModerate},
			{Severity: SeverityLow},
		}},
	}

	// 100 - 25 - 25 - 15 - 5 - 2 = 28
	if got := securityScore(assessments); got != 28 {
		t.Errorf("security score = %d, want 28", got)
	}
}

func TestSecurityScore_FloorsAtZero(t *testing.T) {
	var advisories []SecurityAdvisory
	for i := 0; i < 6; i++ {
		advisories = append(advisories, SecurityAdvisory{Severity: SeverityCritical})
	}

	if got := securityScore([]PackageAssessment{{Advisories: advisories}}); got != 0 {
		t.Errorf("security score = %d, want 0", got)
	}
}

func TestEffortLabel(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "under an hour"},
		{0.75, "under an hour"},
		{1, "about 1 hour"},
		{2.5, "about 3 hours"},
		{4, "about a day"},
		{7.9, "about a day"},
		{8, "about 1 day"},
		{9, "about 2 days"},
		{17, "about 3 days"},
	}

	for _, tt := range tests {
		if got := effortLabel(tt.hours); got != tt.want {
			t.Errorf("effortLabel(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestSummarize_RecommendationPrecedence(t *testing.T) {
	critical := PackageAssessment{Advisories: []SecurityAdvisory{{Severity: SeverityCritical}}}
	high := PackageAssessment{Advisories: []SecurityAdvisory{{Severity: SeverityHigh}}}
	major := PackageAssessment{Delta: VersionDelta{Kind: UpdateMajor}}

	tests := []struct {
		name        string
		assessments []PackageAssessment
		want        string
	}{
		{"critical beats everything", []PackageAssessment{critical, high, major, major, major, major}, recommendCriticalNow},
		{"high without critical", []PackageAssessment{high, major, major, major, major}, recommendHighSoon},
		{"many majors", []PackageAssessment{major, major, major, major}, recommendIncremental},
		{"empty set", nil, recommendAllCurrent},
		{"nothing urgent", []PackageAssessment{{}}, recommendRoutine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, summary := Summarize(tt.assessments)
			if summary.Recommendation != tt.want {
				t.Errorf("recommendation = %q, want %q", summary.Recommendation, tt.want)
			}
		})
	}
}

func TestSummarize_EmptySetIsPerfectHealth(t *testing.T) {
	score, summary := Summarize(nil)

	if score != 100 {
		t.Errorf("security score = %d, want 100", score)
	}
	if summary.TotalPackages != 0 {
		t.Errorf("total = %d, want 0", summary.TotalPackages)
	}
	if summary.EstimatedEffort != "under an hour" {
		t.Errorf("effort = %q, want %q", summary.EstimatedEffort, "under an hour")
	}
}

func TestBuildReport_PartitionsEveryPackage(t *testing.T) {
	facts := []struct {
		fact       PackageFact
		advisories []SecurityAdvisory
		isDev      bool
	}{
		{PackageFact{Name: "lodash", CurrentVersion: "4.17.20", LatestVersion: "4.17.21"},
			[]SecurityAdvisory{{Title: "x", Severity: SeverityHigh}}, false},
		{PackageFact{Name: "react", CurrentVersion: "17.0.2", LatestVersion: "18.2.0"}, nil, false},
		{PackageFact{Name: "axios", CurrentVersion: "1.4.0", LatestVersion: "1.4.1"}, nil, false},
		{PackageFact{Name: "@types/node", CurrentVersion: "18.15.0", LatestVersion: "18.16.0"}, nil, true},
		{PackageFact{Name: "chalk", CurrentVersion: "4.0.0", LatestVersion: "5.3.0"}, nil, false},
	}

	var assessments []PackageAssessment
	for _, f := range facts {
		assessments = append(assessments, Classify(f.fact, f.advisories, f.isDev))
	}

	report := BuildReport(assessments)

	total := len(report.Critical) + len(report.Important) + len(report.Safe) + len(report.Skip)
	if total != len(assessments) {
		t.Errorf("bucket sizes sum to %d, want %d", total, len(assessments))
	}
	if report.Summary.TotalPackages != len(assessments) {
		t.Errorf("summary total = %d, want %d", report.Summary.TotalPackages, len(assessments))
	}

	for _, bucket := range [][]PackageAssessment{report.Critical, report.Important, report.Safe, report.Skip} {
		for i := 1; i < len(bucket); i++ {
			if bucket[i].RiskScore > bucket[i-1].RiskScore {
				t.Errorf("bucket not sorted by descending score: %d before %d",
					bucket[i-1].RiskScore, bucket[i].RiskScore)
			}
		}
	}
}
