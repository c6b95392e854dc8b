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

const PropertySearchToolName = "search_ontology_properties"

// PropertySearchRequest represents the tool input.
type PropertySearchRequest struct {
	Query              string `json:"query" yaml:"query" jsonschema:"title=Query,description=The property to search for. For example has part." validate:"required"`
	Ontologies         string `json:"ontologies,omitempty" yaml:"ontologies,omitempty" jsonschema:"title=Ontologies,description=Comma-separated ontology acronyms to restrict the search. Empty searches all ontologies."`
	MaxResults         int    `json:"max_results,omitempty" yaml:"max_results,omitempty" jsonschema:"title=Max Results,description=Maximum number of results to return.,default=10" validate:"omitempty,min=1"`
	RequireExactMatch  bool   `json:"require_exact_match,omitempty" yaml:"require_exact_match,omitempty" jsonschema:"title=Require Exact Match,description=Only return exact matches."`
	RequireDefinitions bool   `json:"require_definitions,omitempty" yaml:"require_definitions,omitempty" jsonschema:"title=Require Definitions,description=Only return properties that carry a definition."`
	PropertyTypes      string `json:"property_types,omitempty" yaml:"property_types,omitempty" jsonschema:"title=Property Types,description=Comma-separated property kinds to include. Valid kinds are object and annotation and datatype."`
}

// PropertySearchResult represents the structure of a property search response.
type PropertySearchResult struct {
	Properties []bioportal.PropertyResult `json:"properties" yaml:"properties"`
}

func (r *PropertySearchResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *PropertySearchResult) String() string {
	var buf bytes.Buffer
	for _, prop := range r.Properties {
		fmt.Fprintf(&buf, "- ID: %s\n", prop.ID)
		fmt.Fprintf(&buf, "  LABEL: %s\n", prop.Label)
		fmt.Fprintf(&buf, "  ONTOLOGY: %s\n", prop.Ontology)
		fmt.Fprintf(&buf, "  URL: %s\n", prop.OntologyURL)
	}
	return buf.String()
}

// PropertySearchTool searches BioPortal ontologies for properties.
type PropertySearchTool struct {
	name        string
	description string
	funcParams  any

	client *bioportal.Client
}

var (
	_ tools.Tool[PropertySearchRequest, PropertySearchResult] = (*PropertySearchTool)(nil)
	_ tools.IMCPTool                                          = (*PropertySearchTool)(nil)
)

func NewPropertySearchTool(client *bioportal.Client) (*PropertySearchTool, error) {
	sc, err := schema.New(reflect.TypeOf(PropertySearchRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &PropertySearchTool{
		name:        PropertySearchToolName,
		description: "Searches BioPortal ontologies for properties matching a query. Supports restricting to object or annotation or datatype properties and to properties with definitions.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

func (t *PropertySearchTool) Name() string {
	return t.name
}

func (t *PropertySearchTool) Description() string {
	return t.description
}

func (t *PropertySearchTool) Parameters() any {
	return t.funcParams
}

func (t *PropertySearchTool) Run(ctx context.Context, req *PropertySearchRequest) (*PropertySearchResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithMessage(bioportal.ErrInvalidRequest, err.Error())
	}

	properties, err := t.client.SearchProperties(ctx, &bioportal.PropertySearchRequest{
		SearchRequest: bioportal.SearchRequest{
			Query:             req.Query,
			Ontologies:        bioportal.SplitCSV(req.Ontologies),
			MaxResults:        req.MaxResults,
			RequireExactMatch: req.RequireExactMatch,
		},
		RequireDefinitions: req.RequireDefinitions,
		PropertyTypes:      bioportal.SplitCSV(req.PropertyTypes),
	})
	if err != nil {
		return nil, err
	}
	return &PropertySearchResult{Properties: properties}, nil
}

func (t *PropertySearchTool) Call(ctx context.Context, input string) (string, error) {
	var req PropertySearchRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}

func (t *PropertySearchTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *PropertySearchTool) RunMCP(ctx context.Context, req *PropertySearchRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
