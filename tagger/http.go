package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxErrorBody caps how much of a failed response is quoted in errors.
const maxErrorBody = 512

// HTTP tags sentences through a JSON model server.
//
// Request:  {"text": "..."}
// Response: {"tokens": [{"text", "lemma", "upos", "xpos", "head", "deprel"}]}
type HTTP struct {
	endpoint string
	client   *http.Client
}

// NewHTTP returns a tagger posting to endpoint. A zero timeout means no
// per-request timeout beyond the caller's context.
func NewHTTP(endpoint string, timeout time.Duration) *HTTP {
	return &HTTP{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type tagRequest struct {
	Text string `json:"text"`
}

type tagResponse struct {
	Tokens []struct {
		Text   string `json:"text"`
		Lemma  string `json:"lemma"`
		UPOS   string `json:"upos"`
		XPOS   string `json:"xpos"`
		Head   int    `json:"head"`
		Deprel string `json:"deprel"`
	} `json:"tokens"`
}

// Tag sends text to the server and decodes its token predictions.
func (h *HTTP) Tag(ctx context.Context, text string) ([]Prediction, error) {
	body, err := json.Marshal(tagRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTagger, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %s: %s", ErrTagger, resp.Status, bytes.TrimSpace(msg))
	}

	var decoded tagResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrTagger, err)
	}

	preds := make([]Prediction, len(decoded.Tokens))
	for i, t := range decoded.Tokens {
		preds[i] = Prediction{
			Form:   t.Text,
			Lemma:  t.Lemma,
			UPOS:   t.UPOS,
			XPOS:   t.XPOS,
			Head:   t.Head,
			Deprel: t.Deprel,
		}.Normalize()
	}
	return preds, nil
}
