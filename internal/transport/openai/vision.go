package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
	"github.com/comparely/pricedex/internal/metrics"
)

// VisionExtractor reads price and availability off a rendered product
// page screenshot using a multimodal chat model.
type VisionExtractor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewVisionExtractor creates a vision extraction provider.
func NewVisionExtractor(cfg *Config) *VisionExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &VisionExtractor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

const visionSystemPrompt = `You read screenshots of UK retailer product pages.
Extract the price and stock state of the main product on the page.
Rules:
- price: the current selling price in pounds as a plain decimal, e.g. "3.50". Prefer the offer price over the was/RRP price. Use the single-unit price, not a multibuy total.
- currency: ISO code, normally "GBP".
- availability: one of "in_stock", "out_of_stock", "pre_order", "unknown". "Add to basket"/"Add to trolley" present and enabled means in_stock.
- confidence (0.0 to 1.0): how certain you are of the reading. If the page is a cookie wall, error page or the product is not visible, use 0.
- notes: one short sentence on what you saw.
Respond with ONLY a JSON object:
{"price": "3.50", "currency": "GBP", "availability": "in_stock", "confidence": 0.9, "notes": "..."}`

type visionResponse struct {
	Price        string  `json:"price"`
	Currency     string  `json:"currency"`
	Availability string  `json:"availability"`
	Confidence   float64 `json:"confidence"`
	Notes        string  `json:"notes"`
}

// Extract reads the screenshot and returns the page reading. The
// product name keeps the model anchored to the right tile when the
// page shows recommendations alongside the product.
func (e *VisionExtractor) Extract(ctx context.Context, image []byte, productName string) (domain.PageExtract, error) {
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)

	req := openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: visionSystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: fmt.Sprintf("Product being checked: %q", productName),
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI, Detail: openai.ImageURLDetailHigh},
					},
				},
			},
		},
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("llm_vision", "error").Inc()
		return domain.PageExtract{}, parseAPIError("vision", err, domain.ErrVisionError)
	}
	if len(resp.Choices) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("llm_vision", "error").Inc()
		return domain.PageExtract{}, fmt.Errorf("empty vision response: %w", domain.ErrVisionError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("llm_vision", "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues("llm_vision").Observe(duration.Seconds())
	recordTokens(e.model, resp.Usage)

	var parsed visionResponse
	content := extractJSON(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.PageExtract{}, fmt.Errorf("parse vision response: %v: %w", err, domain.ErrVisionError)
	}

	extract := domain.PageExtract{
		Currency:     strings.ToUpper(strings.TrimSpace(parsed.Currency)),
		Availability: normalizeAvailability(parsed.Availability),
		Confidence:   parsed.Confidence,
		Notes:        parsed.Notes,
	}
	if extract.Currency == "" {
		extract.Currency = domain.CurrencyGBP
	}

	if parsed.Price != "" {
		price, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(parsed.Price), "£"))
		if err != nil {
			return domain.PageExtract{}, fmt.Errorf("vision price %q unparseable: %w", parsed.Price, domain.ErrVisionError)
		}
		extract.Price = price
	}

	e.logger.Debug("vision extraction completed",
		zap.String("product", productName),
		zap.String("price", extract.Price.String()),
		zap.String("availability", string(extract.Availability)),
		zap.Duration("duration", duration))

	return extract, nil
}

func normalizeAvailability(v string) domain.Availability {
	switch domain.Availability(strings.ToLower(strings.TrimSpace(v))) {
	case domain.InStock:
		return domain.InStock
	case domain.OutOfStock:
		return domain.OutOfStock
	case domain.PreOrder:
		return domain.PreOrder
	default:
		return domain.Unknown
	}
}
