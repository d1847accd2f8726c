package region

import (
	"strings"

	"github.com/TobiSchelling/waterwise/internal/water"
)

// Default keyword lists, matched as lowercase substrings of the supplier name.
var (
	DefaultSouthern = []string{"san diego", "los angeles", "orange", "riverside", "imperial"}
	DefaultNorthern = []string{"sacramento", "napa", "bay", "sonoma", "humboldt"}
)

// Classifier maps supplier names to regions. Southern keywords are checked
// before Northern ones; anything unmatched is Central.
type Classifier struct {
	southern []string
	northern []string
}

// NewClassifier creates a classifier. Lists with no non-blank keyword fall
// back to the defaults.
func NewClassifier(southern, northern []string) *Classifier {
	c := &Classifier{
		southern: normalize(southern),
		northern: normalize(northern),
	}
	if len(c.southern) == 0 {
		c.southern = normalize(DefaultSouthern)
	}
	if len(c.northern) == 0 {
		c.northern = normalize(DefaultNorthern)
	}
	return c
}

// Classify returns the region for a supplier name.
func (c *Classifier) Classify(name string) water.Region {
	n := strings.ToLower(name)
	if containsAny(n, c.southern) {
		return water.Southern
	}
	if containsAny(n, c.northern) {
		return water.Northern
	}
	return water.Central
}

var defaultClassifier = NewClassifier(nil, nil)

// Classify classifies a name with the default keyword lists.
func Classify(name string) water.Region {
	return defaultClassifier.Classify(name)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func normalize(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
