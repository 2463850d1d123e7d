// Package prompt holds the fixed instruction template sent with every image
// and the best-effort parsing of the model's sectioned output. Any change to
// the template wording is a breaking change for section extraction, so the
// template carries an explicit version.
package prompt

import (
	"regexp"
	"sort"
	"strings"
)

// Version tracks the template wording. Bump on any change.
const Version = "v1"

// Section names in the order the model is asked to produce them.
const (
	SectionImageType       = "Image Type & Region"
	SectionKeyFindings     = "Key Findings"
	SectionDiagnosis       = "Diagnostic Assessment"
	SectionPatientFriendly = "Patient-Friendly Explanation"
	SectionResearchContext = "Research Context"
)

// Sections is the canonical ordering of the five report sections.
var Sections = []string{
	SectionImageType,
	SectionKeyFindings,
	SectionDiagnosis,
	SectionPatientFriendly,
	SectionResearchContext,
}

// Template is the instruction string embedded verbatim into every analysis
// request. The model is not contractually bound to follow it, so downstream
// code must treat the five sections as best-effort.
const Template = `You are a highly skilled medical imaging expert with extensive knowledge in radiology and diagnostic imaging. Analyze the medical image and structure your response as follows:

### 1. Image Type & Region
- Identify imaging modality (X-ray/MRI/CT/Ultrasound/etc.).
- Specify anatomical region and positioning.
- Evaluate image quality and technical adequacy.

### 2. Key Findings
- Highlight primary observations systematically.
- Identify potential abnormalities with detailed descriptions.
- Include measurements and densities where relevant.

### 3. Diagnostic Assessment
- Provide primary diagnosis with confidence level.
- List differential diagnoses ranked by likelihood.
- Support each diagnosis with observed evidence.
- Highlight critical/urgent findings.

### 4. Patient-Friendly Explanation
- Simplify findings in clear, non-technical language.
- Avoid medical jargon or provide easy definitions.
- Include relatable visual analogies.

### 5. Research Context
- Relate the findings to recent medical literature.
- Mention standard treatment protocols where applicable.
- Supporting references will be appended to this report separately.

Ensure a structured and medically accurate response using clear markdown formatting.`

// headingPatterns matches one heading line per section, tolerating markdown
// variations the model tends to produce: "### 1. Key Findings",
// "## Key Findings", "**2) Key Findings**", "Key Findings:".
var headingPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(Sections))
	for _, name := range Sections {
		quoted := regexp.QuoteMeta(name)
		// "&" sometimes comes back as "and"
		quoted = strings.Replace(quoted, `&`, `(?:&|and)`, 1)
		patterns[name] = regexp.MustCompile(
			`(?mi)^[ \t]*(?:#{1,6}[ \t]*)?(?:\*\*)?[ \t]*(?:\d+[.)][ \t]*)?` + quoted + `[ \t]*:?[ \t]*(?:\*\*)?[ \t]*$`)
	}
	return patterns
}()

type headingMatch struct {
	name  string
	start int // start of the heading line
	body  int // first byte after the heading line
}

// ExtractSections splits model output into the named sections. Missing or
// unrecognizable sections are simply absent from the result; this never fails.
func ExtractSections(text string) map[string]string {
	var matches []headingMatch
	for _, name := range Sections {
		loc := headingPatterns[name].FindStringIndex(text)
		if loc == nil {
			continue
		}
		matches = append(matches, headingMatch{name: name, start: loc[0], body: loc[1]})
	}
	if len(matches) == 0 {
		return map[string]string{}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	sections := make(map[string]string, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1].start
		}
		body := strings.TrimSpace(text[m.body:end])
		if body != "" {
			sections[m.name] = body
		}
	}
	return sections
}
