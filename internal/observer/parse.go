package observer

import (
	"regexp"
	"strings"

	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

var reasonPattern = regexp.MustCompile(`(?i)REASON:\s*(.+)`)

// parseDecomposition extracts sectioned criteria from the oracle's output.
// Sections are headed by REQUIREMENTS / FORBIDDEN / MINIMUM_VIABLE /
// SUCCESS_CRITERIA lines; list sections collect bullet items. When no
// section header is found the whole output becomes a single requirement.
func parseDecomposition(text string) types.Criteria {
	criteria := types.Criteria{
		Requirements: []string{},
		Forbidden:    []string{},
	}

	section := ""
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case strings.Contains(upper, "REQUIREMENTS"):
			section = "requirements"
		case strings.Contains(upper, "FORBIDDEN"):
			section = "forbidden"
		case strings.Contains(upper, "MINIMUM_VIABLE") || strings.Contains(upper, "MINIMUM VIABLE"):
			section = "minimum_viable"
		case strings.Contains(upper, "SUCCESS_CRITERIA") || strings.Contains(upper, "SUCCESS CRITERIA"):
			section = "success_criteria"
		case line != "" && section != "":
			switch section {
			case "requirements":
				criteria.Requirements = append(criteria.Requirements, strings.TrimLeft(line, "- "))
			case "forbidden":
				criteria.Forbidden = append(criteria.Forbidden, strings.TrimLeft(line, "- "))
			case "minimum_viable":
				criteria.MinimumViable += line + " "
			case "success_criteria":
				criteria.SuccessCriteria += line + " "
			}
		}
	}

	if len(criteria.Requirements) == 0 && len(criteria.Forbidden) == 0 &&
		criteria.MinimumViable == "" && criteria.SuccessCriteria == "" {
		trimmed := strings.TrimSpace(text)
		if trimmed != "" {
			criteria.Requirements = []string{trimmed}
		}
		return criteria
	}

	criteria.MinimumViable = strings.TrimSpace(criteria.MinimumViable)
	criteria.SuccessCriteria = strings.TrimSpace(criteria.SuccessCriteria)
	return criteria
}

// parseAlignment reads the oracle's verdict. Aligned requires both YES and
// ALIGNED in the output; the reason comes from a REASON: line, else the raw
// output stands in.
func parseAlignment(text string) Alignment {
	upper := strings.ToUpper(text)
	aligned := strings.Contains(upper, "YES") && strings.Contains(upper, "ALIGNED")

	reason := strings.TrimSpace(text)
	if m := reasonPattern.FindStringSubmatch(text); m != nil {
		reason = strings.TrimSpace(m[1])
	}
	return Alignment{Aligned: aligned, Reason: reason}
}
