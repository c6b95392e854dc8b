package bioportal

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
)

// SearchRequest describes a term search.
type SearchRequest struct {
	// Query is the search term, required.
	Query string
	// Ontologies restricts the search to the given acronyms.
	// Empty means all ontologies.
	Ontologies []string
	// MaxResults caps the returned records; 0 means DefaultMaxResults.
	MaxResults int
	// RequireExactMatch returns exact matches only.
	RequireExactMatch bool
}

func (r *SearchRequest) validate() error {
	if r == nil || r.Query == "" {
		return errors.WithMessage(ErrInvalidRequest, "empty query")
	}
	if r.MaxResults < 0 {
		return errors.WithMessagef(ErrInvalidRequest, "max_results must be positive: %d", r.MaxResults)
	}
	return nil
}

func (r *SearchRequest) cap() int {
	return int(values.NumbersCoalesce(int64(r.MaxResults), DefaultMaxResults))
}

// Property kinds accepted by PropertySearchRequest.
const (
	PropertyTypeObject     = "object"
	PropertyTypeAnnotation = "annotation"
	PropertyTypeDatatype   = "datatype"
)

// PropertySearchRequest describes a property search.
type PropertySearchRequest struct {
	SearchRequest

	// RequireDefinitions keeps only properties carrying a definition.
	RequireDefinitions bool
	// PropertyTypes restricts the property kinds; each entry must be
	// one of object, annotation or datatype.
	PropertyTypes []string
}

// AnalyticsRequest selects between the aggregate and the per-ontology
// analytics views. Month and Year narrow the aggregate view only;
// combining them with an acronym is rejected.
type AnalyticsRequest struct {
	Ontology string
	Month    int
	Year     int
}

// AnnotateRequest describes a text annotation call.
type AnnotateRequest struct {
	// Text to annotate, required.
	Text string
	// Ontologies restricts annotation to the given acronyms.
	Ontologies []string
	// LongestOnly keeps only the longest match for a phrase.
	LongestOnly bool
	// ExcludeNumbers drops purely numeric matches.
	ExcludeNumbers bool
	// WholeWordOnly matches whole words; upstream default is true,
	// so the parameter is always sent explicitly.
	WholeWordOnly bool
}

func (r *AnnotateRequest) validate() error {
	if r == nil || r.Text == "" {
		return errors.WithMessage(ErrInvalidRequest, "empty text")
	}
	return nil
}

// TermResult is a flat projection of one matching ontology class.
type TermResult struct {
	// ID is the class URI.
	ID string `json:"id" yaml:"id"`
	// Label is the preferred label, falling back to the generated
	// label, then to the trailing fragment of the ID.
	Label string `json:"label" yaml:"label"`
	// Ontology is the acronym of the defining ontology.
	Ontology string `json:"ontology" yaml:"ontology"`
	// OntologyURL is the BioPortal browse page for the ontology.
	OntologyURL string `json:"ontology_url" yaml:"ontology_url"`
}

// PropertyResult has the same flat shape as TermResult.
type PropertyResult = TermResult

// AnalyticsResult is either the aggregate acronym to visit-count
// mapping, or a detailed per-ontology breakdown; exactly one view is
// populated, selected by whether the request named an ontology.
type AnalyticsResult struct {
	// Visits maps ontology acronym to total visit count (aggregate view).
	Visits map[string]int64 `json:"visits,omitempty" yaml:"visits,omitempty"`

	// Ontology and Breakdown form the per-ontology view; Breakdown
	// maps year to month to visit count.
	Ontology  string                      `json:"ontology,omitempty" yaml:"ontology,omitempty"`
	Breakdown map[string]map[string]int64 `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
}

// Annotation is one recognized ontology class mention in the text.
type Annotation struct {
	// Text is the matched span.
	Text string `json:"text" yaml:"text"`
	// ClassID is the URI of the matched class.
	ClassID string `json:"class_id" yaml:"class_id"`
	// Label is the class label, with the same fallbacks as TermResult.
	Label string `json:"label" yaml:"label"`
	// Ontology is the acronym of the defining ontology.
	Ontology string `json:"ontology" yaml:"ontology"`
	// From and To are 1-based character positions in the input text.
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}
