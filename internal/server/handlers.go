package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/speedtest-bridge/internal/document"
	"github.com/speedtest-bridge/internal/fetcher"
	"github.com/speedtest-bridge/internal/gauges"
	"github.com/speedtest-bridge/internal/updater"
	"github.com/speedtest-bridge/pkg/logger"
)

// webhook 请求体上限，防止异常大包
const maxWebhookBody = 1 << 20

// refreshFromUpstream poll 变体的抓取+更新。失败时写入对应错误响应并返回 false。
// 错误映射：凭证类→500；超时→504；非2xx→502（带上游状态码）；其它传输错误→502
func refreshFromUpstream(w http.ResponseWriter, opts Options) bool {
	doc, err := opts.Fetcher.Latest()
	if err != nil {
		switch {
		case errors.Is(err, fetcher.ErrCredentialsNotFound):
			http.Error(w, "Configuration file not found", http.StatusInternalServerError)
		case errors.Is(err, fetcher.ErrCredentialsInvalid):
			http.Error(w, "Invalid configuration file", http.StatusInternalServerError)
		case errors.Is(err, fetcher.ErrCredentialsIncomplete):
			http.Error(w, "Configuration error", http.StatusInternalServerError)
		case errors.Is(err, fetcher.ErrUpstreamTimeout):
			http.Error(w, "API request timed out", http.StatusGatewayTimeout)
		default:
			var statusErr *fetcher.StatusError
			if errors.As(err, &statusErr) {
				http.Error(w, statusErr.Error(), http.StatusBadGateway)
			} else {
				http.Error(w, "Error fetching speedtest data", http.StatusBadGateway)
			}
		}
		return false
	}

	// 抓取成功后坏字段只按字段降级，不再让请求失败
	updater.Apply(doc, updater.PollProfile(opts.Bridge))
	return true
}

// webhookResponse /webhook 的带内响应体（始终HTTP 200）
type webhookResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	MetricsUpdated *int   `json:"metrics_updated,omitempty"`
}

// handleWebhook push 变体的推送接收
// 始终返回HTTP 200：解析失败也只在响应体里报 error，
// 避免上游发送方因投递失败自行禁用 webhook
func handleWebhook(w http.ResponseWriter, r *http.Request, bridge *gauges.Bridge) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeWebhookJSON(w, webhookResponse{Status: "error", Message: "method not allowed, use POST"})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		logger.Error("failed to read webhook body", zap.Error(err))
		writeWebhookJSON(w, webhookResponse{Status: "error", Message: "failed to read request body"})
		return
	}

	doc, err := document.Parse(raw)
	if err != nil {
		// 原始报文进日志，便于排查发送方的格式问题
		logger.Error("webhook body is not valid JSON",
			zap.ByteString("raw_body", raw), zap.Error(err))
		writeWebhookJSON(w, webhookResponse{Status: "error", Message: "invalid JSON body"})
		return
	}

	logPassthroughMeta(doc)

	count, _ := updater.Apply(doc, updater.PushProfile(bridge))
	writeWebhookJSON(w, webhookResponse{Status: "ok", MetricsUpdated: &count})
}

// logPassthroughMeta 记录不映射到 gauge 的透传元数据
func logPassthroughMeta(doc document.Document) {
	fields := make([]zap.Field, 0, 3)
	for _, key := range []string{"result_id", "isp", "speedtest_url"} {
		if v, ok := document.Lookup(doc, key); ok && v != nil {
			fields = append(fields, zap.Any(key, v))
		}
	}
	if len(fields) > 0 {
		logger.Info("webhook payload metadata", fields...)
	}
}

func writeWebhookJSON(w http.ResponseWriter, resp webhookResponse) {
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode webhook response", zap.Error(err))
	}
}
