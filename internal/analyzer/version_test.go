package analyzer

import "testing"

func TestAnalyzeDelta(t *testing.T) {
	tests := []struct {
		name         string
		current      string
		latest       string
		wantKind     UpdateKind
		wantCurMajor int
		wantLatMajor int
	}{
		{"major bump", "1.2.3", "2.0.0", UpdateMajor, 1, 2},
		{"minor bump", "1.2.3", "1.3.0", UpdateMinor, 1, 1},
		{"patch bump", "1.2.3", "1.2.9", UpdatePatch, 1, 1},
		{"same version", "18.2.0", "18.2.0", UpdatePatch, 18, 18},
		{"v prefix", "v1.2.3", "v2.0.0", UpdateMajor, 1, 2},
		{"caret range prefix", "^4.17.20", "4.17.21", UpdatePatch, 4, 4},
		{"prerelease noise", "1.2.3-beta.1", "2.0.0-rc.1+build.5", UpdateMajor, 1, 2},
		{"major beats lower minor", "1.9.9", "2.0.0", UpdateMajor, 1, 2},
		{"two component version", "1.2", "1.5", UpdateMinor, 1, 1},
		{"multi major jump", "3.1.0", "6.0.1", UpdateMajor, 3, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeDelta(tt.current, tt.latest)
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", got.Kind, tt.wantKind)
			}
			if got.CurrentMajor != tt.wantCurMajor || got.LatestMajor != tt.wantLatMajor {
				t.Errorf("majors = %d → %d, want %d → %d",
					got.CurrentMajor, got.LatestMajor, tt.wantCurMajor, tt.wantLatMajor)
			}
		})
	}
}

func TestAnalyzeDelta_UnparseableFallsBackToPatch(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
	}{
		{"garbage current", "not-a-version", "1.0.0"},
		{"garbage latest", "1.0.0", "linked"},
		{"both garbage", "git+ssh://example", "workspace:*x"},
		{"empty strings", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeDelta(tt.current, tt.latest)
			want := VersionDelta{Kind: UpdatePatch, CurrentMajor: 0, LatestMajor: 0}
			if got != want {
				t.Errorf("delta = %+v, want conservative fallback %+v", got, want)
			}
		})
	}
}
