package ontology_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/bioportal/pkg/bioportal"
	"github.com/effective-security/bioportal/pkg/llmutils"
	"github.com/effective-security/bioportal/tools"
	"github.com/effective-security/bioportal/tools/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *bioportal.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := bioportal.NewClient(&bioportal.Config{APIKey: "testkey"})
	require.NoError(t, err)
	client.WithBaseURL(server.URL).WithHTTPClient(server.Client())
	return client
}

type mockRegistrator struct {
	names   []string
	handler any
}

func (m *mockRegistrator) RegisterTool(name string, description string, handler any) error {
	m.names = append(m.names, name)
	m.handler = handler
	return nil
}

func Test_TermSearchTool(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "melanoma", q.Get("q"))
		assert.Equal(t, "NCIT", q.Get("ontologies"))

		_, _ = w.Write([]byte(`{"collection": [
			{
				"@id": "http://purl.obolibrary.org/obo/NCIT_C3224",
				"prefLabel": "Melanoma",
				"links": {"ontology": "https://data.bioontology.org/ontologies/NCIT"}
			},
			{
				"@id": "http://purl.obolibrary.org/obo/NCIT_C4872",
				"prefLabel": "Breast Carcinoma",
				"links": {"ontology": "https://data.bioontology.org/ontologies/NCIT"}
			},
			{
				"@id": "http://purl.obolibrary.org/obo/NCIT_C2915",
				"prefLabel": "Carcinoma",
				"links": {"ontology": "https://data.bioontology.org/ontologies/NCIT"}
			}
		]}`))
	})

	ctx := context.Background()

	tool, err := ontology.NewTermSearchTool(client)
	require.NoError(t, err)

	assert.Equal(t, ontology.TermSearchToolName, tool.Name())
	assert.Contains(t, tool.Description(), "ontologies")

	params := llmutils.ToJSONIndent(tool.Parameters())
	assert.Contains(t, params, `"query"`)
	assert.Contains(t, params, `"max_results"`)
	assert.Contains(t, params, `"require_exact_match"`)

	_, err = tool.Call(ctx, "plain string")
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	res, err := tool.Run(ctx, &ontology.TermSearchRequest{
		Query:      "melanoma",
		Ontologies: "NCIT",
		MaxResults: 1,
	})
	require.NoError(t, err)
	require.Len(t, res.Terms, 1)
	assert.Equal(t, bioportal.TermResult{
		ID:          "http://purl.obolibrary.org/obo/NCIT_C3224",
		Label:       "Melanoma",
		Ontology:    "NCIT",
		OntologyURL: "https://bioportal.bioontology.org/ontologies/NCIT",
	}, res.Terms[0])

	exp := `- ID: http://purl.obolibrary.org/obo/NCIT_C3224
  LABEL: Melanoma
  ONTOLOGY: NCIT
  URL: https://bioportal.bioontology.org/ontologies/NCIT
`
	assert.Equal(t, exp, res.String())

	out, err := tool.Call(ctx, `{"query": "melanoma", "ontologies": "NCIT", "max_results": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"terms":[{"id":"http://purl.obolibrary.org/obo/NCIT_C3224","label":"Melanoma","ontology":"NCIT","ontology_url":"https://bioportal.bioontology.org/ontologies/NCIT"}]}`, out)
}

func Test_TermSearchTool_Validation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	})

	tool, err := ontology.NewTermSearchTool(client)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = tool.Run(ctx, &ontology.TermSearchRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bioportal.ErrInvalidRequest))

	_, err = tool.Run(ctx, &ontology.TermSearchRequest{Query: "melanoma", MaxResults: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bioportal.ErrInvalidRequest))
}

func Test_TermSearchTool_RegisterMCP(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	})

	tool, err := ontology.NewTermSearchTool(client)
	require.NoError(t, err)

	reg := &mockRegistrator{}
	require.NoError(t, tool.RegisterMCP(reg))
	assert.Equal(t, []string{ontology.TermSearchToolName}, reg.names)
	assert.NotNil(t, reg.handler)
}
