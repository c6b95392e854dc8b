package bioportal

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// The encoders are pure: the same request always yields the same
// parameter map.

func encodeSearch(req *SearchRequest) url.Values {
	vals := url.Values{}
	vals.Set("q", req.Query)
	vals.Set("pagesize", strconv.Itoa(pageSize))
	if onts := joinAcronyms(req.Ontologies); onts != "" {
		vals.Set("ontologies", onts)
	}
	// omitted when false, matching the upstream default
	if req.RequireExactMatch {
		vals.Set("require_exact_match", "true")
	}
	return vals
}

func encodeProperty(req *PropertySearchRequest) (url.Values, error) {
	vals := encodeSearch(&req.SearchRequest)
	if req.RequireDefinitions {
		vals.Set("require_definitions", "true")
	}
	if len(req.PropertyTypes) > 0 {
		types := make([]string, 0, len(req.PropertyTypes))
		for _, t := range req.PropertyTypes {
			t = strings.ToLower(strings.TrimSpace(t))
			switch t {
			case PropertyTypeObject, PropertyTypeAnnotation, PropertyTypeDatatype:
				types = append(types, t)
			default:
				return nil, errors.WithMessagef(ErrInvalidRequest, "unsupported property type: %q", t)
			}
		}
		vals.Set("property_types", strings.Join(types, ","))
	}
	return vals, nil
}

// encodeAnalytics selects the path and parameters for the analytics
// views. Month and year only apply to the aggregate view; supplying
// them together with an acronym is a hard error rather than a silent
// ignore.
func encodeAnalytics(req *AnalyticsRequest) (string, url.Values, error) {
	vals := url.Values{}

	if req.Ontology != "" {
		if req.Month != 0 || req.Year != 0 {
			return "", nil, errors.WithMessage(ErrInvalidRequest,
				"month and year apply to the aggregate view only, not with an ontology acronym")
		}
		return "/analytics/" + url.PathEscape(acronymOf(req.Ontology)), vals, nil
	}

	if req.Month != 0 {
		if req.Month < 1 || req.Month > 12 {
			return "", nil, errors.WithMessagef(ErrInvalidRequest, "month out of range: %d", req.Month)
		}
		vals.Set("month", strconv.Itoa(req.Month))
	}
	if req.Year != 0 {
		vals.Set("year", strconv.Itoa(req.Year))
	}
	return "/analytics", vals, nil
}

func encodeAnnotate(req *AnnotateRequest) url.Values {
	vals := url.Values{}
	vals.Set("text", req.Text)
	if onts := joinAcronyms(req.Ontologies); onts != "" {
		vals.Set("ontologies", onts)
	}
	// the annotator defaults whole_word_only to true upstream,
	// so all three flags are sent explicitly
	vals.Set("longest_only", strconv.FormatBool(req.LongestOnly))
	vals.Set("exclude_numbers", strconv.FormatBool(req.ExcludeNumbers))
	vals.Set("whole_word_only", strconv.FormatBool(req.WholeWordOnly))
	return vals
}

// joinAcronyms upper-cases, trims and deduplicates the acronyms,
// preserving the original order.
func joinAcronyms(list []string) string {
	if len(list) == 0 {
		return ""
	}
	seen := make(map[string]bool, len(list))
	acronyms := make([]string, 0, len(list))
	for _, a := range list {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		acronyms = append(acronyms, a)
	}
	return strings.Join(acronyms, ",")
}

func acronymOf(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SplitCSV parses a comma-separated list as supplied by
// tool callers into the slice form the requests take.
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}
