package ontology_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/bioportal/pkg/bioportal"
	"github.com/effective-security/bioportal/tools/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AnalyticsTool_Aggregate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analytics", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"NCIT": {"2021": {"1": 2, "2": 3}},
			"GO": {"2021": {"1": 7}}
		}`))
	})

	tool, err := ontology.NewAnalyticsTool(client)
	require.NoError(t, err)
	assert.Equal(t, ontology.AnalyticsToolName, tool.Name())

	res, err := tool.Run(context.Background(), &ontology.AnalyticsRequest{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"NCIT": 5, "GO": 7}, res.Visits)
	assert.Nil(t, res.Breakdown)

	exp := `- GO: 7
- NCIT: 5
`
	assert.Equal(t, exp, res.String())
}

func Test_AnalyticsTool_SingleOntology(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analytics/GO", r.URL.Path)
		_, _ = w.Write([]byte(`{"GO": {"2021": {"1": 7, "2": 9}}}`))
	})

	tool, err := ontology.NewAnalyticsTool(client)
	require.NoError(t, err)

	res, err := tool.Run(context.Background(), &ontology.AnalyticsRequest{Ontology: "GO"})
	require.NoError(t, err)
	// the detailed shape, not the aggregate mapping
	assert.Nil(t, res.Visits)
	assert.Equal(t, "GO", res.Ontology)
	assert.Equal(t, map[string]map[string]int64{"2021": {"1": 7, "2": 9}}, res.Breakdown)

	exp := `ONTOLOGY: GO
- 2021-1: 7
- 2021-2: 9
`
	assert.Equal(t, exp, res.String())
}

func Test_AnalyticsTool_Validation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	})

	tool, err := ontology.NewAnalyticsTool(client)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = tool.Run(ctx, &ontology.AnalyticsRequest{Month: 13})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bioportal.ErrInvalidRequest))

	_, err = tool.Run(ctx, &ontology.AnalyticsRequest{Ontology: "GO", Month: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bioportal.ErrInvalidRequest))
}
