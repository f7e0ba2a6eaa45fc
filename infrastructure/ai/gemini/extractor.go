// Package gemini converts free-text family descriptions into graph
// structure using Gemini structured output.
package gemini

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"familytree-backend/application/ports"
	pkgerrors "familytree-backend/pkg/errors"
	"familytree-backend/pkg/utils"
)

// DefaultModel is the default extraction model
const DefaultModel = "gemini-2.5-flash"

const systemInstruction = `You are a professional genealogist and data architect.
Your task is to parse a natural language description of a family and extract a graph structure.
Return a list of nodes (people) and edges (relationships).
Assume strictly Parent->Child relationships for edges unless specified otherwise.
For IDs, use simple unique strings like "p1", "p2".
Infer gender if obvious from context (e.g., "son" = MALE, "daughter" = FEMALE, "mother" = FEMALE). Default to OTHER.
Format dates as YYYY-MM-DD if possible.`

// Extractor is a Gemini-backed ports.TreeExtractor
type Extractor struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewExtractor creates an extractor with the given API key and model
func NewExtractor(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Extractor, error) {
	if apiKey == "" {
		return nil, pkgerrors.NewExternalError("gemini", nil).WithCode("MISSING_API_KEY")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, pkgerrors.NewExternalError("gemini", err)
	}

	return &Extractor{client: client, model: model, logger: logger}, nil
}

// Extract parses a family description into nodes and edges. Any transport
// failure, empty payload or schema mismatch surfaces as an external error;
// no partial result is ever returned.
func (e *Extractor) Extract(ctx context.Context, description string) (*ports.Extraction, error) {
	if description == "" {
		return nil, pkgerrors.NewValidationError("description cannot be empty")
	}

	temperature := float32(0)
	response, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(description), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    extractionSchema(),
	})
	if err != nil {
		return nil, pkgerrors.NewExternalError("gemini", err)
	}

	text := response.Text()
	if text == "" {
		return nil, pkgerrors.NewExternalError("gemini", nil).WithCode("EMPTY_RESPONSE")
	}

	var extraction ports.Extraction
	if err := json.Unmarshal([]byte(text), &extraction); err != nil {
		return nil, pkgerrors.NewExternalError("gemini", err).WithCode("MALFORMED_RESPONSE")
	}
	if err := ValidateExtraction(&extraction); err != nil {
		return nil, err
	}

	e.logger.Info("Extracted family graph from description",
		zap.Int("nodes", len(extraction.Nodes)),
		zap.Int("edges", len(extraction.Edges)),
	)
	return &extraction, nil
}

// ValidateExtraction schema-checks an extraction before it is allowed to
// touch the graph: required ids and labels, valid gender enum values, and
// edges that only reference extracted node ids.
func ValidateExtraction(extraction *ports.Extraction) error {
	if err := utils.ValidateStruct(extraction); err != nil {
		return pkgerrors.NewExternalError("gemini", err).WithCode("MALFORMED_RESPONSE")
	}

	known := make(map[string]bool, len(extraction.Nodes))
	for _, node := range extraction.Nodes {
		if known[node.ID] {
			return pkgerrors.NewExternalError("gemini", nil).
				WithCode("MALFORMED_RESPONSE").
				WithDetails(map[string]interface{}{"duplicate_node_id": node.ID})
		}
		known[node.ID] = true
	}
	for _, edge := range extraction.Edges {
		if !known[edge.Source] || !known[edge.Target] {
			return pkgerrors.NewExternalError("gemini", nil).
				WithCode("MALFORMED_RESPONSE").
				WithDetails(map[string]interface{}{"dangling_edge": edge.Source + "->" + edge.Target})
		}
	}
	return nil
}

// extractionSchema mirrors the fixed output contract of the import
// capability
func extractionSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"nodes", "edges"},
		Properties: map[string]*genai.Schema{
			"nodes": {
				Type:        genai.TypeArray,
				Description: "People mentioned in the description",
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"id", "label"},
					Properties: map[string]*genai.Schema{
						"id":        {Type: genai.TypeString},
						"label":     {Type: genai.TypeString},
						"gender":    {Type: genai.TypeString, Enum: []string{"MALE", "FEMALE", "OTHER"}},
						"birthDate": {Type: genai.TypeString},
						"bio":       {Type: genai.TypeString},
					},
				},
			},
			"edges": {
				Type:        genai.TypeArray,
				Description: "Parent->Child relationships between extracted people",
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"source", "target"},
					Properties: map[string]*genai.Schema{
						"source": {Type: genai.TypeString},
						"target": {Type: genai.TypeString},
						"label":  {Type: genai.TypeString},
					},
				},
			},
		},
	}
}
