package ontology

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/bioportal/pkg/bioportal"
	"github.com/effective-security/bioportal/pkg/llmutils"
	"github.com/effective-security/bioportal/schema"
	"github.com/effective-security/bioportal/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

const TermSearchToolName = "search_ontology_terms"

// TermSearchRequest represents the tool input.
type TermSearchRequest struct {
	Query             string `json:"query" yaml:"query" jsonschema:"title=Query,description=The term to search for. For example melanoma or neuron." validate:"required"`
	Ontologies        string `json:"ontologies,omitempty" yaml:"ontologies,omitempty" jsonschema:"title=Ontologies,description=Comma-separated ontology acronyms to restrict the search. For example NCIT or GO. Empty searches all ontologies."`
	MaxResults        int    `json:"max_results,omitempty" yaml:"max_results,omitempty" jsonschema:"title=Max Results,description=Maximum number of results to return.,default=10" validate:"omitempty,min=1"`
	RequireExactMatch bool   `json:"require_exact_match,omitempty" yaml:"require_exact_match,omitempty" jsonschema:"title=Require Exact Match,description=Only return exact matches."`
}

// TermSearchResult represents the structure of a term search response.
type TermSearchResult struct {
	Terms []bioportal.TermResult `json:"terms" yaml:"terms"`
}

func (r *TermSearchResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *TermSearchResult) String() string {
	var buf bytes.Buffer
	for _, term := range r.Terms {
		fmt.Fprintf(&buf, "- ID: %s\n", term.ID)
		fmt.Fprintf(&buf, "  LABEL: %s\n", term.Label)
		fmt.Fprintf(&buf, "  ONTOLOGY: %s\n", term.Ontology)
		fmt.Fprintf(&buf, "  URL: %s\n", term.OntologyURL)
	}
	return buf.String()
}

// TermSearchTool searches BioPortal ontologies for terms.
type TermSearchTool struct {
	name        string
	description string
	funcParams  any

	client *bioportal.Client
}

var (
	_ tools.Tool[TermSearchRequest, TermSearchResult] = (*TermSearchTool)(nil)
	_ tools.IMCPTool                                  = (*TermSearchTool)(nil)
)

func NewTermSearchTool(client *bioportal.Client) (*TermSearchTool, error) {
	sc, err := schema.New(reflect.TypeOf(TermSearchRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &TermSearchTool{
		name:        TermSearchToolName,
		description: "Searches BioPortal ontologies for terms matching a query and returns the term ID and label with the defining ontology and its browse URL.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

func (t *TermSearchTool) Name() string {
	return t.name
}

func (t *TermSearchTool) Description() string {
	return t.description
}

func (t *TermSearchTool) Parameters() any {
	return t.funcParams
}

func (t *TermSearchTool) Run(ctx context.Context, req *TermSearchRequest) (*TermSearchResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithMessage(bioportal.ErrInvalidRequest, err.Error())
	}

	terms, err := t.client.SearchTerms(ctx, &bioportal.SearchRequest{
		Query:             req.Query,
		Ontologies:        bioportal.SplitCSV(req.Ontologies),
		MaxResults:        req.MaxResults,
		RequireExactMatch: req.RequireExactMatch,
	})
	if err != nil {
		return nil, err
	}
	return &TermSearchResult{Terms: terms}, nil
}

func (t *TermSearchTool) Call(ctx context.Context, input string) (string, error) {
	var req TermSearchRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}

func (t *TermSearchTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *TermSearchTool) RunMCP(ctx context.Context, req *TermSearchRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
