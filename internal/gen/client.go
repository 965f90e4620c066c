// Package gen calls an OpenAI-compatible chat completion endpoint to
// produce quiz documents in the two-part plain-text format the parsers
// consume.
package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Client talks to a chat-completions API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds a client for the given endpoint. baseURL is the API
// root without the /chat/completions suffix.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Request describes the quiz to generate from a source document.
type Request struct {
	SourceText    string
	QuestionCount int
	// Title is echoed into the prompt so stems stay on topic.
	Title string
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You write practice quizzes. Reply with plain text only, " +
	"never markdown fences, and follow the requested format exactly."

// Generate returns the raw generated document. Callers split and parse it
// themselves so a malformed reply never touches session state.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	count := req.QuestionCount
	if count <= 0 {
		count = 10
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req.Title, req.SourceText, count)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("generation request: model=%s questions=%d source=%d chars", c.model, count, len(req.SourceText))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generation endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", errors.New("generation response contained no completion")
	}
	return cr.Choices[0].Message.Content, nil
}

func buildPrompt(title, sourceText string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a quiz of %d multiple-choice questions from the source text below.\n\n", count)
	b.WriteString("Format contract, follow it exactly:\n")
	b.WriteString("- Reply in two parts introduced by the literal marker lines \"Part 1 - Questions\" and \"Part 2 - Answers\".\n")
	b.WriteString("- Part 1: each question starts with its number, a period, an optional [Single] or [Multiple] tag, then the stem on the same line. Offer choices A through D, one per line, as \"A. choice text\".\n")
	b.WriteString("- Tag a question [Multiple] when two to four choices are correct, otherwise [Single].\n")
	b.WriteString("- Part 2: one line per question, \"<number>. Correct: <letter>\" with multiple letters comma-separated, followed by \"Explanation: <one or two sentences>\".\n")
	b.WriteString("- Question numbers in both parts must correspond.\n\n")
	if title != "" {
		fmt.Fprintf(&b, "Topic: %s\n\n", title)
	}
	b.WriteString("Source text:\n")
	b.WriteString(sourceText)
	return b.String()
}
