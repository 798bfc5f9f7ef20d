package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mdnahid/baki_khata_app/internal/core/ports"
	"github.com/shopspring/decimal"
)

const systemInstruction = `Extract the customer name, amount (number), and transaction type from a shop credit note.
Type must be one of: "CASH_CREDIT", "WALLET_CREDIT", "WALLET_PAYMENT", "CASH_PAYMENT".
CASH_CREDIT and WALLET_CREDIT mean the shop extended credit; WALLET_PAYMENT and CASH_PAYMENT mean the customer paid.
Return JSON only.`

// GeminiExtractor calls the Gemini generateContent REST endpoint with
// a JSON response schema and maps the result onto the extraction port.
type GeminiExtractor struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewGeminiExtractor creates an extractor against the given endpoint.
func NewGeminiExtractor(apiURL, apiKey string, timeout time.Duration) *GeminiExtractor {
	return &GeminiExtractor{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

var _ ports.TransactionExtractor = (*GeminiExtractor)(nil)

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// responseSchema constrains the model to the entry shape the core expects.
var responseSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"name": {"type": "STRING"},
		"amount": {"type": "NUMBER"},
		"type": {"type": "STRING"},
		"note": {"type": "STRING"}
	},
	"required": ["name", "amount", "type"]
}`)

// Extract sends the free text to the extraction endpoint and decodes
// the structured reply.
func (g *GeminiExtractor) Extract(ctx context.Context, text string) (*ports.ExtractedTransaction, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf("Parse this shop transaction: %q.", text)}}}},
		SystemInstruction: &content{
			Parts: []part{{Text: systemInstruction}},
		},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction endpoint returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("extraction response contained no candidates")
	}

	var parsed struct {
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
		Type   string          `json:"type"`
		Note   string          `json:"note"`
	}
	if err := json.Unmarshal([]byte(genResp.Candidates[0].Content.Parts[0].Text), &parsed); err != nil {
		return nil, fmt.Errorf("extraction response was not valid JSON: %w", err)
	}

	return &ports.ExtractedTransaction{
		Name:   parsed.Name,
		Amount: parsed.Amount,
		Kind:   parsed.Type,
		Note:   parsed.Note,
	}, nil
}
