// Package service 提供外部协作方的 HTTP 客户端实现：
// 冻结的视觉特征提取服务与自然语言风格解析服务。
// 引擎只消费它们的输出，接口定义在 core 包。
//
// 公共约定：
//   - 每次调用带超时（context + client timeout 双保险）
//   - 失败重试一次，仍失败映射为 UPSTREAM_UNAVAILABLE 软失败
//   - 绝不在持有会话锁时发起上游调用
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/stylekit/core"
)

// VisualEmbedClient 是视觉特征提取服务的 HTTP 客户端。
//
// API 格式：
//   - 端点：POST {endpoint}/v1/visual/embed
//   - 请求体：图片原始字节（application/octet-stream）
//   - 响应：{"embedding": [f1, f2, ...]}
type VisualEmbedClient struct {
	// Endpoint 服务端点，例如 "http://visual-embed:8080"
	Endpoint string

	// Timeout 超时时间
	Timeout time.Duration

	// httpClient HTTP 客户端
	httpClient *http.Client
}

// NewVisualEmbedClient 创建视觉嵌入客户端。
func NewVisualEmbedClient(endpoint string, opts ...VisualEmbedOption) *VisualEmbedClient {
	client := &VisualEmbedClient{
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

// VisualEmbedOption 视觉嵌入客户端配置选项
type VisualEmbedOption func(*VisualEmbedClient)

// WithVisualEmbedTimeout 设置超时时间
func WithVisualEmbedTimeout(timeout time.Duration) VisualEmbedOption {
	return func(c *VisualEmbedClient) {
		c.Timeout = timeout
		if c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithVisualEmbedHTTPClient 设置自定义 HTTP 客户端
func WithVisualEmbedHTTPClient(httpClient *http.Client) VisualEmbedOption {
	return func(c *VisualEmbedClient) {
		c.httpClient = httpClient
	}
}

// Embed 提取上传图片的视觉嵌入。
func (c *VisualEmbedClient) Embed(ctx context.Context, image []byte) ([]float64, error) {
	if len(image) == 0 {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"image payload is empty")
	}

	body, err := c.post(ctx, c.Endpoint+"/v1/visual/embed", "application/octet-stream", image)
	if err != nil {
		return nil, err
	}

	var result struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUpstreamUnavailable,
			fmt.Sprintf("visual service returned malformed response: %v", err))
	}
	if len(result.Embedding) == 0 {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUpstreamUnavailable,
			"visual service returned empty embedding")
	}
	return result.Embedding, nil
}

// post 发请求；失败重试一次，最终失败映射为 UPSTREAM_UNAVAILABLE。
func (c *VisualEmbedClient) post(ctx context.Context, url, contentType string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		body, err := doPost(ctx, c.httpClient, url, contentType, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUpstreamUnavailable,
		fmt.Sprintf("visual service unavailable: %v", lastErr))
}

func (c *VisualEmbedClient) Close() error { return nil }

var _ core.VisualEmbedService = (*VisualEmbedClient)(nil)

// doPost 是两个客户端共用的单次 POST。
func doPost(ctx context.Context, client *http.Client, url, contentType string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}
	return io.ReadAll(resp.Body)
}
