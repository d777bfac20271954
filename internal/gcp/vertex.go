package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/documentquizflow/internal/models"
)

// --- Extraction Prompt ---
const ExtractionUserPrompt = "次の画像/文書の日本語テキストのみを抽出してください。余計な説明は不要です。"

// --- Quiz Prompt ---
// The extracted text is appended directly after the template.
const QuizUserPrompt = `以下の本文から日本語の小テストを5問（四択3＋穴埋め2）で作成してください。
各問に 正答・解説・根拠（本文の該当行） を含め、全体を JSON で返してください。
出力は {"questions": Question[]} の形で返してください。
Question: {"type": "mcq|cloze", "question": string, "choices"?: string[], "answer": string, "explanation": string, "sourceText": string}
本文:
`

// --- Health Check Prompt ---
const PingPrompt = "ping"

// VertexClient runs single-turn generation requests against any Gemini model
// the project has access to. Models are resolved per request so the same
// client serves the primary, fallback and text-only identities.
type VertexClient struct {
	baseClient *genai.Client
}

// NewVertexClient creates a new client for the given project and region.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &VertexClient{baseClient: baseClient}, nil
}

// Generate sends the request blocks as one user turn and returns the text
// parts of the first candidate joined by newlines.
func (c *VertexClient) Generate(ctx context.Context, req models.GenerateRequest) (string, error) {
	model := c.baseClient.GenerativeModel(req.ModelID)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: genai.Ptr(req.MaxTokens),
		Temperature:     genai.Ptr(req.Temperature),
	}

	resp, err := model.GenerateContent(ctx, toParts(req.Blocks)...)
	if err != nil {
		return "", fmt.Errorf("vertex generate content (model %s): %w", req.ModelID, err)
	}
	return responseText(resp), nil
}

func toParts(blocks []models.ContentBlock) []genai.Part {
	parts := make([]genai.Part, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case models.BlockText:
			parts = append(parts, genai.Text(b.Text))
		case models.BlockDocument:
			// Blob has no display name; b.Name is not sent.
			parts = append(parts, genai.Blob{MIMEType: "application/" + b.Format, Data: b.Bytes})
		case models.BlockImage:
			parts = append(parts, genai.ImageData(b.Format, b.Bytes))
		}
	}
	return parts
}

// responseText collects every text part; non-text parts are ignored.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var texts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			texts = append(texts, string(txt))
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
