package ontology

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/bioportal/pkg/bioportal"
	"github.com/effective-security/bioportal/pkg/llmutils"
	"github.com/effective-security/bioportal/schema"
	"github.com/effective-security/bioportal/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

const AnalyticsToolName = "get_ontology_analytics"

// AnalyticsRequest represents the tool input.
type AnalyticsRequest struct {
	Ontology string `json:"ontology_acronym,omitempty" yaml:"ontology_acronym,omitempty" jsonschema:"title=Ontology Acronym,description=Return the detailed visit breakdown for this ontology. Empty returns aggregate visit counts across all ontologies."`
	Month    int    `json:"month,omitempty" yaml:"month,omitempty" jsonschema:"title=Month,description=Narrow the aggregate view to this month. Only valid without an ontology acronym." validate:"omitempty,min=1,max=12"`
	Year     int    `json:"year,omitempty" yaml:"year,omitempty" jsonschema:"title=Year,description=Narrow the aggregate view to this year. Only valid without an ontology acronym."`
}

// AnalyticsResult is either the aggregate acronym to visit-count
// mapping or the per-ontology breakdown.
type AnalyticsResult struct {
	bioportal.AnalyticsResult `yaml:",inline"`
}

func (r *AnalyticsResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *AnalyticsResult) String() string {
	var buf bytes.Buffer
	if r.Ontology != "" {
		fmt.Fprintf(&buf, "ONTOLOGY: %s\n", r.Ontology)
		for _, year := range sortedKeys(r.Breakdown) {
			months := r.Breakdown[year]
			for _, month := range sortedKeys(months) {
				fmt.Fprintf(&buf, "- %s-%s: %d\n", year, month, months[month])
			}
		}
		return buf.String()
	}
	for _, acr := range sortedKeys(r.Visits) {
		fmt.Fprintf(&buf, "- %s: %d\n", acr, r.Visits[acr])
	}
	return buf.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AnalyticsTool returns BioPortal visit analytics.
type AnalyticsTool struct {
	name        string
	description string
	funcParams  any

	client *bioportal.Client
}

var (
	_ tools.Tool[AnalyticsRequest, AnalyticsResult] = (*AnalyticsTool)(nil)
	_ tools.IMCPTool                                = (*AnalyticsTool)(nil)
)

func NewAnalyticsTool(client *bioportal.Client) (*AnalyticsTool, error) {
	sc, err := schema.New(reflect.TypeOf(AnalyticsRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &AnalyticsTool{
		name:        AnalyticsToolName,
		description: "Returns BioPortal visit analytics: aggregate visit counts per ontology or a detailed monthly breakdown for a single ontology.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

func (t *AnalyticsTool) Name() string {
	return t.name
}

func (t *AnalyticsTool) Description() string {
	return t.description
}

func (t *AnalyticsTool) Parameters() any {
	return t.funcParams
}

func (t *AnalyticsTool) Run(ctx context.Context, req *AnalyticsRequest) (*AnalyticsResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithMessage(bioportal.ErrInvalidRequest, err.Error())
	}

	res, err := t.client.Analytics(ctx, &bioportal.AnalyticsRequest{
		Ontology: req.Ontology,
		Month:    req.Month,
		Year:     req.Year,
	})
	if err != nil {
		return nil, err
	}
	return &AnalyticsResult{AnalyticsResult: *res}, nil
}

func (t *AnalyticsTool) Call(ctx context.Context, input string) (string, error) {
	var req AnalyticsRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}

func (t *AnalyticsTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *AnalyticsTool) RunMCP(ctx context.Context, req *AnalyticsRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
