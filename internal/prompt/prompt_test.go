package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const wellFormedReport = `### 1. Image Type & Region
Chest X-ray, PA view. Good technical quality.

### 2. Key Findings
Opacity in the right lower lobe measuring approximately 3 cm.

### 3. Diagnostic Assessment
Primary diagnosis: right lower lobe pneumonia (high confidence).

### 4. Patient-Friendly Explanation
There is a cloudy area in the lower right part of your lung.

### 5. Research Context
Community-acquired pneumonia management follows established guidelines.`

func TestExtractSectionsWellFormed(t *testing.T) {
	sections := ExtractSections(wellFormedReport)

	assert.Len(t, sections, 5)
	assert.Contains(t, sections[SectionImageType], "Chest X-ray")
	assert.Contains(t, sections[SectionKeyFindings], "right lower lobe")
	assert.Contains(t, sections[SectionDiagnosis], "pneumonia")
	assert.Contains(t, sections[SectionPatientFriendly], "cloudy area")
	assert.Contains(t, sections[SectionResearchContext], "guidelines")
}

func TestExtractSectionsHeadingVariants(t *testing.T) {
	variants := []string{
		"## Key Findings\nsomething notable",
		"**2. Key Findings**\nsomething notable",
		"2) Key Findings\nsomething notable",
		"Key Findings:\nsomething notable",
		"### Key Findings\nsomething notable",
	}
	for _, text := range variants {
		t.Run(strings.Split(text, "\n")[0], func(t *testing.T) {
			sections := ExtractSections(text)
			assert.Equal(t, "something notable", sections[SectionKeyFindings])
		})
	}
}

func TestExtractSectionsPartialOutput(t *testing.T) {
	text := "### 2. Key Findings\nNodule present.\n\n### 4. Patient-Friendly Explanation\nA small spot was seen."
	sections := ExtractSections(text)

	assert.Len(t, sections, 2)
	assert.Equal(t, "Nodule present.", sections[SectionKeyFindings])
	assert.NotContains(t, sections, SectionDiagnosis)
}

func TestExtractSectionsUnstructuredOutput(t *testing.T) {
	sections := ExtractSections("The model ignored the template and wrote a single paragraph.")
	assert.Empty(t, sections)
}

func TestTemplateNamesAllSections(t *testing.T) {
	for _, name := range Sections {
		assert.Contains(t, Template, name)
	}
	// The template itself must be parseable by our own extractor.
	assert.Len(t, ExtractSections(Template), 5)
}
