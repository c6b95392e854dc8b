package bioportal

import (
	"encoding/json"
	"strings"
)

// Wire shapes. Every field is optional upstream; nothing here assumes
// a key is present.

type searchResponse struct {
	Collection []classRecord `json:"collection"`
}

type classRecord struct {
	ID             string     `json:"@id"`
	PrefLabel      string     `json:"prefLabel"`
	Labels         labelList  `json:"label"`
	LabelGenerated string     `json:"labelGenerated"`
	Links          classLinks `json:"links"`
}

type classLinks struct {
	Ontology string `json:"ontology"`
}

// labelList tolerates both a bare string and an array of strings;
// property records use the array form.
type labelList []string

func (l *labelList) UnmarshalJSON(bs []byte) error {
	if len(bs) > 0 && bs[0] == '"' {
		var s string
		if err := json.Unmarshal(bs, &s); err != nil {
			return err
		}
		*l = labelList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(bs, &list); err != nil {
		return err
	}
	*l = labelList(list)
	return nil
}

type annotationRecord struct {
	AnnotatedClass classRecord      `json:"annotatedClass"`
	Annotations    []annotationSpan `json:"annotations"`
}

type annotationSpan struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Text string `json:"text"`
}

// label resolves the display label: preferred label first, then the
// plain label, then the generated one, then the trailing fragment of
// the class URI as a last resort.
func (r *classRecord) label() string {
	if r.PrefLabel != "" {
		return r.PrefLabel
	}
	for _, l := range r.Labels {
		if l != "" {
			return l
		}
	}
	if r.LabelGenerated != "" {
		return r.LabelGenerated
	}
	return idFragment(r.ID)
}

// acronym derives the ontology acronym from the links.ontology
// reference, e.g. "https://data.bioontology.org/ontologies/NCIT".
// A bare acronym is accepted as-is.
func (r *classRecord) acronym() string {
	ref := strings.TrimSuffix(r.Links.Ontology, "/")
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		ref = ref[i+1:]
	}
	return ref
}

func idFragment(id string) string {
	if i := strings.LastIndexAny(id, "#/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// normalizeClasses projects the upstream collection into flat records,
// preserving order and truncating to cap. Records that cannot yield
// both an id and an ontology acronym are skipped; the dropped count is
// returned for diagnostics, never surfaced to callers.
func normalizeClasses(records []classRecord, cap int) ([]TermResult, int) {
	var dropped int
	results := make([]TermResult, 0, min(cap, len(records)))
	for _, rec := range records {
		if len(results) == cap {
			break
		}
		acr := rec.acronym()
		if rec.ID == "" || acr == "" {
			dropped++
			continue
		}
		results = append(results, TermResult{
			ID:          rec.ID,
			Label:       rec.label(),
			Ontology:    acr,
			OntologyURL: BrowseURLPrefix + acr,
		})
	}
	return results, dropped
}

// normalizeAggregateAnalytics flattens the acronym -> year -> month
// nesting into a single acronym -> total mapping, summing across all
// returned time slices.
func normalizeAggregateAnalytics(slices map[string]map[string]map[string]int64) *AnalyticsResult {
	visits := make(map[string]int64, len(slices))
	for acr, years := range slices {
		var total int64
		for _, months := range years {
			for _, n := range months {
				total += n
			}
		}
		visits[acr] = total
	}
	return &AnalyticsResult{Visits: visits}
}

// normalizeOntologyAnalytics extracts the per-ontology breakdown.
// The upstream either wraps the breakdown in an object keyed by the
// acronym or returns it bare; both shapes are accepted.
func normalizeOntologyAnalytics(raw json.RawMessage, acronym string) (*AnalyticsResult, error) {
	var wrapped map[string]map[string]map[string]int64
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		for acr, breakdown := range wrapped {
			if strings.EqualFold(acr, acronym) {
				return &AnalyticsResult{Ontology: acronym, Breakdown: breakdown}, nil
			}
		}
	}

	var breakdown map[string]map[string]int64
	if err := json.Unmarshal(raw, &breakdown); err != nil {
		return nil, &UpstreamError{Excerpt: excerpt(raw), cause: err}
	}
	return &AnalyticsResult{Ontology: acronym, Breakdown: breakdown}, nil
}

// normalizeAnnotations flattens annotator records into one entry per
// matched span, skipping classes without an id or ontology and spans
// without text.
func normalizeAnnotations(records []annotationRecord) ([]Annotation, int) {
	var dropped int
	var annotations []Annotation
	for _, rec := range records {
		acr := rec.AnnotatedClass.acronym()
		if rec.AnnotatedClass.ID == "" || acr == "" {
			dropped++
			continue
		}
		for _, span := range rec.Annotations {
			if span.Text == "" {
				continue
			}
			annotations = append(annotations, Annotation{
				Text:     span.Text,
				ClassID:  rec.AnnotatedClass.ID,
				Label:    rec.AnnotatedClass.label(),
				Ontology: acr,
				From:     span.From,
				To:       span.To,
			})
		}
	}
	return annotations, dropped
}
