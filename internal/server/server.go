// Package server 提供测速网关的HTTP服务：/metrics 指标暴露、/webhook 推送接收、
// /health 健康检查、优雅关闭与系统信号监听。
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/speedtest-bridge/internal/document"
	"github.com/speedtest-bridge/internal/gauges"
	"github.com/speedtest-bridge/pkg/config"
	"github.com/speedtest-bridge/pkg/logger"
)

// httpShutdownTimeout 优雅关闭超时时间，避免关闭流程无限阻塞
const httpShutdownTimeout = 5 * time.Second

// ResultFetcher 上游抓取接口（隔离 fetcher 具体实现，便于单测 mock）
type ResultFetcher interface {
	Latest() (document.Document, error)
}

// Options HTTP服务依赖（显式注入，不用包级单例）
type Options struct {
	Variant  gauges.Variant
	Registry *prometheus.Registry
	Bridge   *gauges.Bridge
	Fetcher  ResultFetcher // 仅 poll 变体需要
}

// HTTPServer HTTP服务实例，封装监听地址、底层服务器与指标注册器
type HTTPServer struct {
	addr     string
	server   *http.Server
	registry *prometheus.Registry
}

// statusWriter 包装http.ResponseWriter，捕获响应状态码用于请求日志
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader 记录状态码后转调原生方法
func (w *statusWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// NewHTTPServer 创建HTTP服务实例（依赖注入模式）
// 路由按变体装配：
//
//	poll: /metrics（抓取+更新+暴露）、/health
//	push: /metrics（仅暴露）、/webhook（接收推送）、/health
func NewHTTPServer(cfg *config.ServerConfig, opts Options) *HTTPServer {
	mux := http.NewServeMux()

	// 请求日志：方法、URL、客户端地址、状态码、耗时
	logRequest := func(r *http.Request, msg string, statusCode int, start time.Time) {
		logger.Info(
			msg,
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	}

	// 指标暴露处理器（两个变体共用，复用全局日志器输出promhttp内部错误）
	exposition := promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(logger.GetLogger()),
	})

	mux.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}

		if opts.Variant == gauges.VariantPoll {
			// 先抓取+更新，失败则整个请求失败（fail-closed），不输出半截指标
			if !refreshFromUpstream(ww, opts) {
				logRequest(r, "metrics request failed", ww.status, start)
				return
			}
		}
		exposition.ServeHTTP(ww, r)

		logRequest(r, "metrics request received", ww.status, start)
	}))

	if opts.Variant == gauges.VariantPush {
		mux.Handle("/webhook", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: 200}

			handleWebhook(ww, r, opts.Bridge)

			logRequest(r, "webhook received", ww.status, start)
		}))
	}

	// /health 端点：无依赖检查，直接返回200 OK
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}

		ww.WriteHeader(http.StatusOK)
		_, _ = ww.Write([]byte("OK"))

		logRequest(r, "health check received", ww.status, start)
	})

	return &HTTPServer{
		addr:     cfg.Addr,
		registry: opts.Registry,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start 启动HTTP服务（非阻塞，监听在子goroutine中进行）
func (s *HTTPServer) Start() error {
	logger.Info(
		"starting HTTP server",
		zap.String("listen_addr", s.addr),
		zap.Duration("read_timeout", s.server.ReadTimeout),
		zap.Duration("write_timeout", s.server.WriteTimeout),
		zap.Duration("idle_timeout", s.server.IdleTimeout),
	)

	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal(
					"HTTP server failed to listen",
					zap.Error(err),
					zap.String("listen_addr", s.addr),
				)
			} else {
				logger.Info(
					"HTTP server stopped listening",
					zap.String("listen_addr", s.addr),
				)
			}
		}
	}()
	return nil
}

// Shutdown 优雅关闭HTTP服务：停止接收新请求，等待存量请求完成（超时视为完成）
func (s *HTTPServer) Shutdown() error {
	logger.Info("starting graceful shutdown of HTTP server", zap.String("listen_addr", s.addr))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
			return nil
		}
		logger.Error("HTTP server shutdown failed", zap.Error(err), zap.String("listen_addr", s.addr))
		return err
	}
	logger.Info("HTTP server shutdown successfully", zap.String("listen_addr", s.addr))
	return nil
}

// WaitForShutdown 监听SIGINT/SIGTERM，收到信号后执行自定义关闭逻辑（带超时）
func WaitForShutdown(shutdownFunc func() error) {
	if shutdownFunc == nil {
		logger.Error("shutdownFunc is nil, cannot execute shutdown")
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("service is running, waiting for shutdown signal (SIGINT/SIGTERM)...")

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdownErrChan := make(chan error, 1)
	go func() {
		logger.Info("starting graceful shutdown...")
		shutdownErrChan <- shutdownFunc()
		close(shutdownErrChan)
	}()

	select {
	case err := <-shutdownErrChan:
		if err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		} else {
			logger.Info("graceful shutdown completed successfully")
		}
	case <-ctx.Done():
		logger.Error("graceful shutdown timed out", zap.Error(ctx.Err()))
	}

	if err := logger.Sync(); err != nil {
		if err.Error() != "sync /dev/stdout: bad file descriptor" {
			logger.Warn("logger sync failed", zap.Error(err))
		}
	}

	logger.Info("shutdown workflow finished, program exiting")
}
