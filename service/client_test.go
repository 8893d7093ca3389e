package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"

	"github.com/rushteam/stylekit/core"
)

// TestVisualEmbedClient 测试视觉嵌入客户端
func TestVisualEmbedClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/visual/embed" {
			t.Errorf("路径错误: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/octet-stream" {
			t.Errorf("Content-Type 错误: %s", ct)
		}
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.1, 0.2}})
	}))
	defer srv.Close()

	client := NewVisualEmbedClient(srv.URL)
	got, err := client.Embed(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if len(got) != 2 || got[0] != 0.1 {
		t.Errorf("嵌入错误: %v", got)
	}
}

// TestVisualEmbedClientRetry 测试单次重试：首次 500 后成功
func TestVisualEmbedClientRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{1}})
	}))
	defer srv.Close()

	client := NewVisualEmbedClient(srv.URL)
	if _, err := client.Embed(context.Background(), []byte("jpeg")); err != nil {
		t.Fatalf("重试后应成功: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("期望 2 次调用，实际 %d", calls.Load())
	}
}

// TestVisualEmbedClientUnavailable 测试持续失败映射为 UPSTREAM_UNAVAILABLE
func TestVisualEmbedClientUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewVisualEmbedClient(srv.URL)
	_, err := client.Embed(context.Background(), []byte("jpeg"))
	if !core.IsUpstreamUnavailable(err) {
		t.Errorf("期望 UPSTREAM_UNAVAILABLE，实际 %v", err)
	}
}

// TestVisualEmbedClientEmptyImage 测试空图片的入参校验
func TestVisualEmbedClientEmptyImage(t *testing.T) {
	client := NewVisualEmbedClient("http://unused")
	_, err := client.Embed(context.Background(), nil)
	if !core.IsInvalidInput(err) {
		t.Errorf("期望 INVALID_INPUT，实际 %v", err)
	}
}

// TestStyleAnalyzeClient 测试风格解析客户端
func TestStyleAnalyzeClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/style/analyze" {
			t.Errorf("路径错误: %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["description"] != "denim jacket" {
			t.Errorf("描述错误: %s", req["description"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"extracted_attributes": map[string]any{"style": []string{"denim"}},
			"confidence":           0.8,
			"summary":              "classic denim",
		})
	}))
	defer srv.Close()

	client := NewStyleAnalyzeClient(srv.URL)
	got, err := client.Analyze(context.Background(), "denim jacket")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got.Confidence != 0.8 || got.Summary != "classic denim" {
		t.Errorf("结果错误: %+v", got)
	}
	if len(got.Attributes.Style) != 1 || got.Attributes.Style[0] != "denim" {
		t.Errorf("属性错误: %+v", got.Attributes)
	}
}

// TestStyleAnalyzeClientNilAttributes 测试缺字段响应的容错
func TestStyleAnalyzeClientNilAttributes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"summary": "no extraction"})
	}))
	defer srv.Close()

	client := NewStyleAnalyzeClient(srv.URL)
	got, err := client.Analyze(context.Background(), "anything")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got.Attributes == nil {
		t.Fatal("缺字段时 Attributes 应为空对象而不是 nil")
	}
	if len(got.Attributes.Tokens()) != 0 {
		t.Errorf("期望零 token，实际 %v", got.Attributes.Tokens())
	}
}

// TestStyleAnalyzeClientEmptyDescription 测试空描述校验
func TestStyleAnalyzeClientEmptyDescription(t *testing.T) {
	client := NewStyleAnalyzeClient("http://unused")
	_, err := client.Analyze(context.Background(), "")
	if !core.IsInvalidInput(err) {
		t.Errorf("期望 INVALID_INPUT，实际 %v", err)
	}
}
