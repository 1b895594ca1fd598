package tariff

import "strings"

// MaterialDetector decides whether a free-text material description
// falls under the Section 232 steel/aluminum surcharge.
type MaterialDetector interface {
	AtRisk(description string) bool
}

// DefaultMaterialKeywords covers the steel/aluminum/iron family,
// including the Japanese variants seen in supplier listings.
var DefaultMaterialKeywords = []string{
	"steel",
	"stainless",
	"aluminum",
	"aluminium",
	"iron",
	"cast iron",
	"alloy",
	"スチール",
	"ステンレス",
	"アルミ",
	"アルミニウム",
	"鉄",
	"鋳鉄",
	"合金",
}

// KeywordDetector matches a keyword list against the description,
// case-insensitively.
type KeywordDetector struct {
	keywords []string
}

// NewKeywordDetector builds a detector over the given keywords.
// No keywords means the default Section 232 list.
func NewKeywordDetector(keywords ...string) *KeywordDetector {
	if len(keywords) == 0 {
		keywords = DefaultMaterialKeywords
	}
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &KeywordDetector{keywords: lowered}
}

// AtRisk reports whether any keyword occurs in the description
func (d *KeywordDetector) AtRisk(description string) bool {
	if description == "" {
		return false
	}
	desc := strings.ToLower(description)
	for _, kw := range d.keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// noDetector never flags a material
type noDetector struct{}

func (noDetector) AtRisk(string) bool { return false }
