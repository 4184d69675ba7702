package registry

// Content holds one locale's descriptive strings for a tool.
type Content struct {
	Title            string   `json:"title" yaml:"title"`
	ShortDescription string   `json:"shortDescription" yaml:"shortDescription"`
	LongDescription  string   `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	Keywords         []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Rating is a schema.org AggregateRating. Best and Worst default to 5 and 1.
type Rating struct {
	Value float64 `json:"ratingValue" yaml:"ratingValue"`
	Count int     `json:"ratingCount" yaml:"ratingCount"`
	Best  float64 `json:"bestRating,omitempty" yaml:"bestRating,omitempty"`
	Worst float64 `json:"worstRating,omitempty" yaml:"worstRating,omitempty"`
}

// Bounds returns the effective worst and best rating values.
func (r Rating) Bounds() (worst, best float64) {
	worst, best = r.Worst, r.Best
	if best == 0 {
		best = 5
	}
	if worst == 0 {
		worst = 1
	}
	return worst, best
}

// Offer is a schema.org Offer.
type Offer struct {
	Price    string `json:"price" yaml:"price"`
	Currency string `json:"priceCurrency" yaml:"priceCurrency"`
}

// Schema describes the structured data emitted as JSON-LD for a tool.
// Extra keys are passed through as-is after the typed fields.
type Schema struct {
	Type                string         `json:"type" yaml:"type"`
	ApplicationCategory string         `json:"applicationCategory,omitempty" yaml:"applicationCategory,omitempty"`
	OperatingSystem     string         `json:"operatingSystem,omitempty" yaml:"operatingSystem,omitempty"`
	Features            []string       `json:"features,omitempty" yaml:"features,omitempty"`
	AggregateRating     *Rating        `json:"aggregateRating,omitempty" yaml:"aggregateRating,omitempty"`
	Offers              *Offer         `json:"offers,omitempty" yaml:"offers,omitempty"`
	Extra               map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Entry is one tool record in the registry. Path is stored bare, without a
// locale prefix.
type Entry struct {
	ID               string             `json:"id" yaml:"id"`
	Category         string             `json:"category" yaml:"category"`
	Path             string             `json:"path" yaml:"path"`
	Image            string             `json:"image,omitempty" yaml:"image,omitempty"`
	LocalizedContent map[string]Content `json:"localizedContent" yaml:"localizedContent"`
	Schema           *Schema            `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Category is a tool category with its own landing page.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Path string `json:"path" yaml:"path"`
}

func (c Content) clone() Content {
	c.Keywords = cloneStrings(c.Keywords)
	return c
}

func (s *Schema) clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.Features = cloneStrings(s.Features)
	if s.AggregateRating != nil {
		r := *s.AggregateRating
		out.AggregateRating = &r
	}
	if s.Offers != nil {
		o := *s.Offers
		out.Offers = &o
	}
	if s.Extra != nil {
		out.Extra = make(map[string]any, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}

func (e Entry) clone() Entry {
	out := e
	if e.LocalizedContent != nil {
		out.LocalizedContent = make(map[string]Content, len(e.LocalizedContent))
		for k, v := range e.LocalizedContent {
			out.LocalizedContent[k] = v.clone()
		}
	}
	out.Schema = e.Schema.clone()
	return out
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
