package screen

import (
	"fmt"
	"strings"

	"github.com/leafdoc-core/server/internal/agent/model"
)

// ShareText builds the plain-text summary handed to a share target.
func ShareText(crop model.Crop, res model.AnalysisResult) (title, text string) {
	name := res.DiseaseName
	if name == "" {
		name = "Diagnosis"
	}
	title = fmt.Sprintf("%s: %s", crop.Name, name)

	sep := res.Language.Info().ListSeparator
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d%%)\n", name, res.ConfidenceScore)
	if res.Description != "" {
		b.WriteString(res.Description)
		b.WriteString("\n")
	}
	section := func(label string, items []string) {
		if len(items) > 0 {
			fmt.Fprintf(&b, "%s: %s\n", label, strings.Join(items, sep))
		}
	}
	section("Symptoms", res.Symptoms)
	section("Chemical remedies", res.Remedies.Chemical)
	section("Organic remedies", res.Remedies.Organic)
	section("Prevention", res.Prevention)
	for _, l := range res.GroundingLinks {
		fmt.Fprintf(&b, "- %s: %s\n", l.Title, l.URI)
	}
	return title, strings.TrimRight(b.String(), "\n")
}
