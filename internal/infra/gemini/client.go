// Package gemini talks to the Google Generative Language REST API and
// implements domain.Advisor. It owns the two prompts (repayment plan,
// chat preamble) and the strict shape-parsing of the plan response.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quita-app/quita/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey    string
	model     string // advice model
	chatModel string
	baseURL   string
	httpc     *http.Client
}

// Options configures a Client.
type Options struct {
	APIKey    string
	Model     string // model for repayment plans
	ChatModel string // model for chat replies
	BaseURL   string // override for tests
	Timeout   time.Duration
}

// New creates a Gemini client.
func New(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash-lite"
	}
	if opts.ChatModel == "" {
		opts.ChatModel = "gemini-2.0-flash"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		apiKey:    opts.APIKey,
		model:     opts.Model,
		chatModel: opts.ChatModel,
		baseURL:   opts.BaseURL,
		httpc:     &http.Client{Timeout: opts.Timeout},
	}
}

// ─── Wire types ─────────────────────────────────────────────────────────────

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) generate(ctx context.Context, model string, contents []content) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: contents})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini response: %w", err)
	}
	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("gemini response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", gr.Error.Code, gr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// ─── Advice ─────────────────────────────────────────────────────────────────

// Advise asks the model for a repayment plan and parses the reply into the
// structured advice shape.
func (c *Client) Advise(ctx context.Context, snap domain.Snapshot) (*domain.Advice, error) {
	prompt, err := buildAdvicePrompt(snap)
	if err != nil {
		return nil, err
	}
	text, err := c.generate(ctx, c.model, []content{{Role: "user", Parts: []part{{Text: prompt}}}})
	if err != nil {
		return nil, err
	}
	return ParseAdvice([]byte(text))
}

// ParseAdvice decodes an advice reply. Models wrap JSON in markdown fences
// often enough that they are stripped first; anything that still fails to
// decode into the expected shape is reported as ErrBadAdvice.
func ParseAdvice(raw []byte) (*domain.Advice, error) {
	clean := stripFences(string(raw))

	var advice domain.Advice
	if err := json.Unmarshal([]byte(clean), &advice); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadAdvice, err)
	}
	if advice.Summary == "" {
		return nil, fmt.Errorf("%w: missing summary", domain.ErrBadAdvice)
	}
	for _, a := range advice.Timeline {
		switch a.Source {
		case "balance", "credit_card", "overdraft", "loan":
		default:
			return nil, fmt.Errorf("%w: unknown timeline source %q", domain.ErrBadAdvice, a.Source)
		}
	}
	for _, r := range advice.Recommendations {
		switch r.Type {
		case domain.RecommendationWarning, domain.RecommendationTip, domain.RecommendationSuccess:
		default:
			return nil, fmt.Errorf("%w: unknown recommendation type %q", domain.ErrBadAdvice, r.Type)
		}
	}
	return &advice, nil
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func buildAdvicePrompt(snap domain.Snapshot) (string, error) {
	debtsJSON, err := json.MarshalIndent(snap.Debts, "", "  ")
	if err != nil {
		return "", err
	}
	cardsJSON, err := json.MarshalIndent(snap.CreditCards, "", "  ")
	if err != nil {
		return "", err
	}
	overdraftsJSON, err := json.MarshalIndent(snap.Overdrafts, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Act as an experienced personal financial advisor. Analyze the following
financial data and produce a detailed, chronological action plan.

Current balance (cash available): %s

Debts:
%s

Credit cards and limits:
%s

Overdraft facilities:
%s

Instructions:
1. Compare the available balance against the total debt and its due dates.
2. Build a timeline of payments and actions.
3. For each action, state where the money comes from (balance, credit card, overdraft, ...).
4. If the balance runs out, say explicitly which credit to use for the rest, preferring lower interest or avoiding the larger penalties.
5. If not everything can be paid, suggest what to skip (lowest impact) and explain.
6. Return ONLY valid JSON, no markdown and no extra text, strictly following this structure:

{
  "summary": "Executive summary of the situation and overall strategy.",
  "timeline": [
    {
      "date": "YYYY-MM-DD",
      "action": "Description of the action (e.g. Pay rent)",
      "amount": 1000.00,
      "source": "balance" | "credit_card" | "overdraft" | "loan",
      "sourceName": "Bank or card name (optional)",
      "reason": "Short explanation of why this action/source",
      "projectedBalance": 500.00
    }
  ],
  "recommendations": [
    {
      "type": "warning" | "tip" | "success",
      "message": "Specific advice or alert"
    }
  ]
}`, snap.Balance.StringFixed(2), debtsJSON, cardsJSON, overdraftsJSON), nil
}

// ─── Chat ───────────────────────────────────────────────────────────────────

// Chat sends a free-text question with the snapshot injected as a preamble
// of the user message, so the model always sees current data.
func (c *Client) Chat(ctx context.Context, snap domain.Snapshot, history []domain.ChatMessage, message string) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, h := range history {
		contents = append(contents, content{Role: string(h.Role), Parts: []part{{Text: h.Text}}})
	}
	contents = append(contents, content{
		Role:  "user",
		Parts: []part{{Text: buildChatPreamble(snap) + "\n\nUSER QUESTION: " + message}},
	})
	return c.generate(ctx, c.chatModel, contents)
}

func buildChatPreamble(snap domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("You are a smart, empathetic personal finance assistant.\n\n")
	sb.WriteString("THE USER'S CURRENT FINANCIAL DATA:\n")
	fmt.Fprintf(&sb, "- Account balance: %s\n", snap.Balance.StringFixed(2))
	fmt.Fprintf(&sb, "- Total overdraft limit: %s\n", snap.Totals.OverdraftLimit.StringFixed(2))
	fmt.Fprintf(&sb, "- Total debt: %s\n", snap.Totals.Debt.StringFixed(2))
	fmt.Fprintf(&sb, "- Total credit limit: %s\n", snap.Totals.CreditLimit.StringFixed(2))

	sb.WriteString("\nOVERDRAFT DETAILS:\n")
	for _, o := range snap.Overdrafts {
		fmt.Fprintf(&sb, "- %s: limit %s\n", o.BankName, o.Limit.StringFixed(2))
	}
	sb.WriteString("\nDEBT DETAILS:\n")
	for _, d := range snap.Debts {
		fmt.Fprintf(&sb, "- %s (%s): %s (due: %s)\n", d.Description, d.Category, d.Amount.StringFixed(2), d.DueDate.Format("2006-01-02"))
	}
	sb.WriteString("\nCARD DETAILS:\n")
	for _, c := range snap.CreditCards {
		fmt.Fprintf(&sb, "- %s: limit %s\n", c.Name, c.Limit.StringFixed(2))
	}

	sb.WriteString(`
INSTRUCTIONS:
1. Answer the user's question based on this data.
2. Be direct, practical and encouraging.
3. If asked "how much do I owe?", sum the debts.
4. If asked "can I buy this?", look at the balance and available credit.
5. Keep a natural conversational tone.`)
	return sb.String()
}
