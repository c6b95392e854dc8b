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

const AnnotateToolName = "annotate_text"

// AnnotateRequest represents the tool input.
type AnnotateRequest struct {
	Text           string `json:"text" yaml:"text" jsonschema:"title=Text,description=The text to annotate. For example Melanoma is a malignant tumor of melanocytes." validate:"required"`
	Ontologies     string `json:"ontologies,omitempty" yaml:"ontologies,omitempty" jsonschema:"title=Ontologies,description=Comma-separated ontology acronyms to annotate with. Empty uses all ontologies."`
	LongestOnly    bool   `json:"longest_only,omitempty" yaml:"longest_only,omitempty" jsonschema:"title=Longest Only,description=Return only the longest match for overlapping annotations."`
	ExcludeNumbers bool   `json:"exclude_numbers,omitempty" yaml:"exclude_numbers,omitempty" jsonschema:"title=Exclude Numbers,description=Exclude purely numeric annotations."`
	WholeWordOnly  *bool  `json:"whole_word_only,omitempty" yaml:"whole_word_only,omitempty" jsonschema:"title=Whole Word Only,description=Match whole words only.,default=true"`
}

// AnnotateResult represents the structure of an annotator response.
type AnnotateResult struct {
	Annotations []bioportal.Annotation `json:"annotations" yaml:"annotations"`
}

func (r *AnnotateResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *AnnotateResult) String() string {
	var buf bytes.Buffer
	for _, a := range r.Annotations {
		fmt.Fprintf(&buf, "- TEXT: %s [%d-%d]\n", a.Text, a.From, a.To)
		fmt.Fprintf(&buf, "  CLASS: %s\n", a.ClassID)
		fmt.Fprintf(&buf, "  LABEL: %s\n", a.Label)
		fmt.Fprintf(&buf, "  ONTOLOGY: %s\n", a.Ontology)
	}
	return buf.String()
}

// AnnotateTool recognizes ontology class mentions in free text.
type AnnotateTool struct {
	name        string
	description string
	funcParams  any

	client *bioportal.Client
}

var (
	_ tools.Tool[AnnotateRequest, AnnotateResult] = (*AnnotateTool)(nil)
	_ tools.IMCPTool                              = (*AnnotateTool)(nil)
)

func NewAnnotateTool(client *bioportal.Client) (*AnnotateTool, error) {
	sc, err := schema.New(reflect.TypeOf(AnnotateRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &AnnotateTool{
		name:        AnnotateToolName,
		description: "Annotates text with BioPortal ontology terms and returns each matched span with the class ID and label and its position in the text.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

func (t *AnnotateTool) Name() string {
	return t.name
}

func (t *AnnotateTool) Description() string {
	return t.description
}

func (t *AnnotateTool) Parameters() any {
	return t.funcParams
}

func (t *AnnotateTool) Run(ctx context.Context, req *AnnotateRequest) (*AnnotateResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithMessage(bioportal.ErrInvalidRequest, err.Error())
	}

	// whole-word matching is on unless explicitly disabled
	wholeWord := true
	if req.WholeWordOnly != nil {
		wholeWord = *req.WholeWordOnly
	}

	annotations, err := t.client.Annotate(ctx, &bioportal.AnnotateRequest{
		Text:           req.Text,
		Ontologies:     bioportal.SplitCSV(req.Ontologies),
		LongestOnly:    req.LongestOnly,
		ExcludeNumbers: req.ExcludeNumbers,
		WholeWordOnly:  wholeWord,
	})
	if err != nil {
		return nil, err
	}
	return &AnnotateResult{Annotations: annotations}, nil
}

func (t *AnnotateTool) Call(ctx context.Context, input string) (string, error) {
	var req AnnotateRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}

func (t *AnnotateTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *AnnotateTool) RunMCP(ctx context.Context, req *AnnotateRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
