package npm

import (
	"testing"

	"github.com/WillZhangFly/package-outdated-why/internal/analyzer"
)

const auditFixture = `{
  "auditReportVersion": 2,
  "vulnerabilities": {
    "lodash": {
      "name": "lodash",
      "severity": "high",
      "isDirect": true,
      "via": [
        {
          "source": 1065,
          "name": "lodash",
          "dependency": "lodash",
          "title": "Command Injection in lodash",
          "url": "https://github.com/advisories/GHSA-35jh-r3h4-6jhm",
          "severity": "high",
          "range": "<4.17.21"
        }
      ],
      "range": "<4.17.21",
      "fixAvailable": {
        "name": "lodash",
        "version": "4.17.21",
        "isSemVerMajor": false
      }
    },
    "follow-redirects": {
      "name": "follow-redirects",
      "severity": "moderate",
      "via": [
        {
          "source": 1096353,
          "name": "follow-redirects",
          "title": "Exposure of sensitive information",
          "url": "https://github.com/advisories/GHSA-74fj-2j2h-c42q",
          "severity": "moderate",
          "range": "<1.15.4"
        },
        "axios"
      ],
      "range": "<1.15.4",
      "fixAvailable": true
    }
  }
}`

func TestParseAudit(t *testing.T) {
	advisories, err := ParseAudit([]byte(auditFixture))
	if err != nil {
		t.Fatalf("ParseAudit failed: %v", err)
	}

	lodash := advisories["lodash"]
	if len(lodash) != 1 {
		t.Fatalf("got %d lodash advisories, want 1", len(lodash))
	}
	if lodash[0].Severity != analyzer.SeverityHigh {
		t.Errorf("severity = %s, want high", lodash[0].Severity)
	}
	if lodash[0].Title != "Command Injection in lodash" {
		t.Errorf("unexpected title %q", lodash[0].Title)
	}
	if lodash[0].PatchedVersion != "4.17.21" {
		t.Errorf("patched version = %q, want 4.17.21", lodash[0].PatchedVersion)
	}
	if lodash[0].VulnerableRange != "<4.17.21" {
		t.Errorf("range = %q, want <4.17.21", lodash[0].VulnerableRange)
	}

	// String entries in "via" are transitive references, not advisories.
	fr := advisories["follow-redirects"]
	if len(fr) != 1 {
		t.Fatalf("got %d follow-redirects advisories, want 1", len(fr))
	}
	if fr[0].Severity != analyzer.SeverityModerate {
		t.Errorf("severity = %s, want moderate", fr[0].Severity)
	}
	// Boolean fixAvailable carries no version.
	if fr[0].PatchedVersion != "" {
		t.Errorf("patched version = %q, want empty", fr[0].PatchedVersion)
	}
}

func TestParseAudit_DegradesToNoAdvisories(t *testing.T) {
	for _, input := range []string{"", "not json", `{"vulnerabilities": {}}`} {
		advisories, err := ParseAudit([]byte(input))
		if err != nil {
			t.Errorf("ParseAudit(%q) returned error: %v", input, err)
		}
		if advisories != nil {
			t.Errorf("ParseAudit(%q) = %v, want nil", input, advisories)
		}
	}
}
