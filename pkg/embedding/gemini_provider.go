package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type GeminiProvider struct {
	ApiKey string
	Model  string
	client *http.Client
}

func NewGeminiProvider(apiKey, model string) EmbeddingProvider {
	if model == "" {
		model = "text-embedding-004"
	}
	return &GeminiProvider{
		ApiKey: apiKey,
		Model:  model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	geminiReq := EmbeddingRequest{
		Model: p.Model,
		Content: EmbeddingRequestContent{
			Parts: []EmbeddingRequestContentPart{
				{Text: text},
			},
		},
		TaskType: taskType,
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		p.Model,
	)

	resBody, err := p.post(ctx, endpoint, geminiReqJson)
	if err != nil {
		return nil, err
	}

	var resEmbedding EmbeddingResponse
	if err := json.Unmarshal(resBody, &resEmbedding); err != nil {
		return nil, err
	}

	return &resEmbedding, nil
}

type geminiBatchRequest struct {
	Requests []EmbeddingRequest `json:"requests"`
}

type geminiBatchResponse struct {
	Embeddings []EmbeddingResponseEmbedding `json:"embeddings"`
}

// GenerateBatch uses batchEmbedContents: one round trip per chunk batch
// instead of one per chunk. Response order matches request order.
func (p *GeminiProvider) GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*EmbeddingResponse, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batchReq := geminiBatchRequest{
		Requests: make([]EmbeddingRequest, len(texts)),
	}
	for i, text := range texts {
		batchReq.Requests[i] = EmbeddingRequest{
			Model: "models/" + p.Model,
			Content: EmbeddingRequestContent{
				Parts: []EmbeddingRequestContentPart{
					{Text: text},
				},
			},
			TaskType: taskType,
		}
	}
	reqJson, err := json.Marshal(batchReq)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:batchEmbedContents",
		p.Model,
	)

	resBody, err := p.post(ctx, endpoint, reqJson)
	if err != nil {
		return nil, err
	}

	var batchRes geminiBatchResponse
	if err := json.Unmarshal(resBody, &batchRes); err != nil {
		return nil, err
	}
	if len(batchRes.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d inputs", len(batchRes.Embeddings), len(texts))
	}

	responses := make([]*EmbeddingResponse, len(batchRes.Embeddings))
	for i, e := range batchRes.Embeddings {
		responses[i] = &EmbeddingResponse{Embedding: e}
	}
	return responses, nil
}

func (p *GeminiProvider) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	return resByte, nil
}
