// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/paw-tracker/internal/httputil"
)

// classifyPromptTmpl is the prompt sent to the Gemini API for each entry.
// It pins the exact JSON keys the Annotation struct expects.
var classifyPromptTmpl = template.Must(template.New("classify").Parse(`Analyze the following article about Plasma-Activated Water (PAW):
Title: {{.Title}}
Abstract: {{.Abstract}}

Return ONLY a JSON object with exactly these keys (use the integer 1 for present and 0 for absent):
{
    "Domain": "Agriculture, Food Systems, Biomedical, Fundamentals or Environmental",
    "Reactor": "Reactor name",
    "Gas": "Working gas used",
    "Time": 1,
    "Power": 1,
    "pH": 1,
    "ORP": 1,
    "Cond": 1,
    "H2O2": 1,
    "NO2": 1,
    "NO3": 1,
    "Endpoint": "Main outcome/target"
}
Do not include any text outside the JSON object.
`))

// geminiAPIBase is the Gemini generateContent endpoint prefix. Package-level
// var for test substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiBackend calls the Gemini API to classify one entry.
type GeminiBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// geminiRequest is the request body for the generateContent API.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// geminiContent is one message in the generateContent request or response.
type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the response body from the generateContent API.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// Classify renders the prompt, calls Gemini, and parses the JSON object out
// of the model's text response.
func (g *GeminiBackend) Classify(ctx context.Context, title, abstract string) (Annotation, error) {
	prompt, err := renderPrompt(title, abstract)
	if err != nil {
		return Annotation{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Annotation{}, fmt.Errorf("marshaling request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s:generateContent", geminiAPIBase, g.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Annotation{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return Annotation{}, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Annotation{}, fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return Annotation{}, fmt.Errorf("decoding Gemini response: %w", err)
	}
	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return Annotation{}, fmt.Errorf("Gemini API returned no candidates")
	}

	return parseAnnotation(gResp.Candidates[0].Content.Parts[0].Text)
}

// parseAnnotation unmarshals the model's text output, tolerating Markdown
// code fences around the JSON object.
func parseAnnotation(text string) (Annotation, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var a Annotation
	if err := json.Unmarshal([]byte(clean), &a); err != nil {
		return Annotation{}, fmt.Errorf("parsing classification JSON: %w", err)
	}
	if a.Domain == "" {
		return Annotation{}, fmt.Errorf("classification JSON missing Domain")
	}
	return a, nil
}

// renderPrompt executes the classification prompt template.
func renderPrompt(title, abstract string) (string, error) {
	var buf bytes.Buffer
	err := classifyPromptTmpl.Execute(&buf, struct{ Title, Abstract string }{Title: title, Abstract: abstract})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
