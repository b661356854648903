// Package fetcher 负责 poll 变体的单次上游抓取：
// 读取凭证文件 → 一次带 Bearer 认证的 GET → 解析 JSON 文档。
// 无重试：失败直接上抛，由下一个抓取周期自然重试。
package fetcher

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/speedtest-bridge/internal/document"
	"github.com/speedtest-bridge/pkg/logger"
)

// 上游固定30秒超时（与抓取周期解耦，不可配置）
const fetchTimeout = 30 * time.Second

const latestResultPath = "/api/v1/results/latest"

// ErrUpstreamTimeout 上游超时（调用方映射为 504）
var ErrUpstreamTimeout = errors.New("upstream request timed out")

// StatusError 上游返回非 2xx（调用方映射为 502，并带状态码）
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}

// Fetcher 上游测速结果抓取器
type Fetcher struct {
	client    *http.Client
	credsPath string
}

// New 创建抓取器，credsPath 为上游凭证文件路径
func New(credsPath string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: fetchTimeout},
		credsPath: credsPath,
	}
}

// Latest 抓取最近一次测速结果
// 凭证每次重新读取，凭证类错误原样上抛（errors.Is 可判别）
func (f *Fetcher) Latest() (document.Document, error) {
	creds, err := LoadCredentials(f.credsPath)
	if err != nil {
		return nil, err
	}

	url := creds.APIHost + latestResultPath
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.BearerToken)

	resp, err := f.client.Do(req)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			logger.Error("timeout while fetching speedtest data", zap.String("url", url))
			return nil, ErrUpstreamTimeout
		}
		logger.Error("error fetching speedtest data", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("fetch speedtest data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("upstream returned non-2xx status",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("error reading upstream response body", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	doc, err := document.Parse(raw)
	if err != nil {
		logger.Error("upstream response is not valid JSON", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("decode upstream body: %w", err)
	}
	return doc, nil
}
