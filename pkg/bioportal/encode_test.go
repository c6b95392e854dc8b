package bioportal

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EncodeSearch(t *testing.T) {
	req := &SearchRequest{
		Query:      "melanoma",
		Ontologies: []string{"ncit", " GO ", "NCIT", "", "hp"},
	}
	vals := encodeSearch(req)
	assert.Equal(t, "melanoma", vals.Get("q"))
	assert.Equal(t, "50", vals.Get("pagesize"))
	assert.Equal(t, "NCIT,GO,HP", vals.Get("ontologies"))
	assert.False(t, vals.Has("require_exact_match"))
	assert.False(t, vals.Has("max_results"))

	req.RequireExactMatch = true
	vals = encodeSearch(req)
	assert.Equal(t, "true", vals.Get("require_exact_match"))

	// pure: same request, same parameters
	assert.Equal(t, vals, encodeSearch(req))
}

func Test_EncodeProperty(t *testing.T) {
	req := &PropertySearchRequest{
		SearchRequest: SearchRequest{Query: "has part"},
	}
	vals, err := encodeProperty(req)
	require.NoError(t, err)
	assert.False(t, vals.Has("require_definitions"))
	assert.False(t, vals.Has("property_types"))

	req.RequireDefinitions = true
	req.PropertyTypes = []string{"Object", " annotation "}
	vals, err = encodeProperty(req)
	require.NoError(t, err)
	assert.Equal(t, "true", vals.Get("require_definitions"))
	assert.Equal(t, "object,annotation", vals.Get("property_types"))

	req.PropertyTypes = []string{"object", "bogus"}
	_, err = encodeProperty(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func Test_EncodeAnalytics(t *testing.T) {
	path, vals, err := encodeAnalytics(&AnalyticsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "/analytics", path)
	assert.Empty(t, vals)

	path, vals, err = encodeAnalytics(&AnalyticsRequest{Month: 3})
	require.NoError(t, err)
	assert.Equal(t, "/analytics", path)
	assert.Equal(t, "3", vals.Get("month"))
	assert.False(t, vals.Has("year"))

	path, vals, err = encodeAnalytics(&AnalyticsRequest{Month: 3, Year: 2021})
	require.NoError(t, err)
	assert.Equal(t, "/analytics", path)
	assert.Equal(t, "3", vals.Get("month"))
	assert.Equal(t, "2021", vals.Get("year"))

	path, _, err = encodeAnalytics(&AnalyticsRequest{Ontology: "go"})
	require.NoError(t, err)
	assert.Equal(t, "/analytics/GO", path)

	_, _, err = encodeAnalytics(&AnalyticsRequest{Ontology: "GO", Year: 2021})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, _, err = encodeAnalytics(&AnalyticsRequest{Month: 13})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func Test_EncodeAnnotate(t *testing.T) {
	vals := encodeAnnotate(&AnnotateRequest{
		Text:          "Melanoma is a malignant tumor",
		Ontologies:    []string{"NCIT", "DOID"},
		WholeWordOnly: true,
	})
	assert.Equal(t, "Melanoma is a malignant tumor", vals.Get("text"))
	assert.Equal(t, "NCIT,DOID", vals.Get("ontologies"))
	assert.Equal(t, "true", vals.Get("whole_word_only"))
	assert.Equal(t, "false", vals.Get("longest_only"))
	assert.Equal(t, "false", vals.Get("exclude_numbers"))
}

func Test_SplitCSV(t *testing.T) {
	assert.Nil(t, SplitCSV(""))
	assert.Nil(t, SplitCSV("  "))
	assert.Equal(t, []string{"NCIT", "go"}, SplitCSV(" NCIT, go ,"))
}
