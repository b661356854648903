package fetcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/speedtest-bridge/pkg/logger"
)

// 上游凭证文件的三类失败模式（调用方统一映射为 500 响应）
var (
	ErrCredentialsNotFound   = errors.New("upstream config file not found")
	ErrCredentialsInvalid    = errors.New("upstream config file is not valid JSON")
	ErrCredentialsIncomplete = errors.New("upstream config file missing required key")
)

// Credentials 上游测速API凭证（仅 poll 变体使用）
// 每次抓取前重新读取，修改文件无需重启进程
type Credentials struct {
	APIHost     string `json:"api_host"`
	BearerToken string `json:"bearer_token"`
}

// LoadCredentials 从固定路径读取并校验上游凭证
// 校验：api_host 与 bearer_token 必须存在且非空；api_host 末尾斜杠在此剥离
func LoadCredentials(path string) (*Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Error("upstream config file not found", zap.String("path", path))
			return nil, fmt.Errorf("%w: %s", ErrCredentialsNotFound, path)
		}
		logger.Error("upstream config file unreadable", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrCredentialsNotFound, path)
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		logger.Error("upstream config file is not valid JSON", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCredentialsInvalid, err)
	}

	// 逐键校验，错误信息只暴露键名，不暴露凭证内容
	for key, val := range map[string]string{
		"api_host":     creds.APIHost,
		"bearer_token": creds.BearerToken,
	} {
		if strings.TrimSpace(val) == "" {
			logger.Error("upstream config missing required key", zap.String("path", path), zap.String("key", key))
			return nil, fmt.Errorf("%w: %s", ErrCredentialsIncomplete, key)
		}
	}

	creds.APIHost = strings.TrimRight(creds.APIHost, "/")
	return &creds, nil
}
