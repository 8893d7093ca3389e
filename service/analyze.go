package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/stylekit/core"
)

// StyleAnalyzeClient 是风格描述解析服务的 HTTP 客户端。
// 上游是文本理解服务（大模型网关），天然不可靠：
// 响应可能缺字段、可能零抽取，调用方按软失败处理。
//
// API 格式：
//   - 端点：POST {endpoint}/v1/style/analyze
//   - 请求体：{"description": "..."}
//   - 响应：{"extracted_attributes": {...}, "confidence": 0.8, "summary": "..."}
type StyleAnalyzeClient struct {
	// Endpoint 服务端点，例如 "http://style-analyze:8080"
	Endpoint string

	// Timeout 超时时间
	Timeout time.Duration

	// httpClient HTTP 客户端
	httpClient *http.Client
}

// NewStyleAnalyzeClient 创建风格解析客户端。
func NewStyleAnalyzeClient(endpoint string, opts ...StyleAnalyzeOption) *StyleAnalyzeClient {
	client := &StyleAnalyzeClient{
		Endpoint: endpoint,
		Timeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.Timeout}
	}
	return client
}

// StyleAnalyzeOption 风格解析客户端配置选项
type StyleAnalyzeOption func(*StyleAnalyzeClient)

// WithStyleAnalyzeTimeout 设置超时时间
func WithStyleAnalyzeTimeout(timeout time.Duration) StyleAnalyzeOption {
	return func(c *StyleAnalyzeClient) {
		c.Timeout = timeout
		if c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithStyleAnalyzeHTTPClient 设置自定义 HTTP 客户端
func WithStyleAnalyzeHTTPClient(httpClient *http.Client) StyleAnalyzeOption {
	return func(c *StyleAnalyzeClient) {
		c.httpClient = httpClient
	}
}

// Analyze 解析风格描述。
func (c *StyleAnalyzeClient) Analyze(ctx context.Context, description string) (*core.StyleAnalysis, error) {
	if description == "" {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"style description is empty")
	}

	payload, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		body, err := doPost(ctx, c.httpClient, c.Endpoint+"/v1/style/analyze", "application/json", payload)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		var result core.StyleAnalysis
		if err := json.Unmarshal(body, &result); err != nil {
			lastErr = fmt.Errorf("malformed response: %w", err)
			continue
		}
		if result.Attributes == nil {
			result.Attributes = &core.ExtractedAttributes{}
		}
		return &result, nil
	}

	return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUpstreamUnavailable,
		fmt.Sprintf("style analyze service unavailable: %v", lastErr))
}

func (c *StyleAnalyzeClient) Close() error { return nil }

var _ core.StyleAnalyzeService = (*StyleAnalyzeClient)(nil)
