package ontology_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/effective-security/bioportal/tools/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AnnotateTool(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/annotator", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Melanoma is a malignant tumor", q.Get("text"))
		// whole-word matching defaults to on
		assert.Equal(t, "true", q.Get("whole_word_only"))

		_, _ = w.Write([]byte(`[
			{
				"annotatedClass": {
					"@id": "http://purl.obolibrary.org/obo/NCIT_C3224",
					"prefLabel": "Melanoma",
					"links": {"ontology": "https://data.bioontology.org/ontologies/NCIT"}
				},
				"annotations": [{"from": 1, "to": 8, "text": "MELANOMA"}]
			}
		]`))
	})

	tool, err := ontology.NewAnnotateTool(client)
	require.NoError(t, err)
	assert.Equal(t, ontology.AnnotateToolName, tool.Name())

	res, err := tool.Run(context.Background(), &ontology.AnnotateRequest{
		Text: "Melanoma is a malignant tumor",
	})
	require.NoError(t, err)
	require.Len(t, res.Annotations, 1)
	assert.Equal(t, "MELANOMA", res.Annotations[0].Text)
	assert.Equal(t, "NCIT", res.Annotations[0].Ontology)

	exp := `- TEXT: MELANOMA [1-8]
  CLASS: http://purl.obolibrary.org/obo/NCIT_C3224
  LABEL: Melanoma
  ONTOLOGY: NCIT
`
	assert.Equal(t, exp, res.String())
}

func Test_AnnotateTool_WholeWordDisabled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("whole_word_only"))
		_, _ = w.Write([]byte(`[]`))
	})

	tool, err := ontology.NewAnnotateTool(client)
	require.NoError(t, err)

	wholeWord := false
	res, err := tool.Run(context.Background(), &ontology.AnnotateRequest{
		Text:          "melanoma",
		WholeWordOnly: &wholeWord,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Annotations)
}
