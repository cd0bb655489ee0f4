package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"footsies/replay"
	"footsies/server"

	"github.com/joho/godotenv"
	"github.com/quasilyte/gdata"
)

// Footsies 入口：启动 HTTP + WebSocket 对战服务；-verify 时只重放一局并校验
func main() {
	// .env 可选，不存在时只用进程环境变量
	_ = godotenv.Load()

	var (
		configPath string
		addr       string
		verifyKey  string
	)
	flag.StringVar(&configPath, "config", os.Getenv(server.EnvConfig), "ini config file")
	flag.StringVar(&addr, "addr", "", "server listen address, e.g. :8080 (overrides config)")
	flag.StringVar(&verifyKey, "verify", "", "re-simulate the stored replay with this key and exit")
	flag.Parse()

	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	if verifyKey != "" {
		cfg.Log.File = ""
		if err := server.InitLogger(cfg.Log); err != nil {
			panic(err)
		}
		defer server.SyncLogger()
		if err := verify(cfg.Replay.AppName, verifyKey); err != nil {
			server.Log.Errorw("verify failed", "key", verifyKey, "err", err)
			server.SyncLogger()
			if errors.Is(err, replay.ErrDesync) {
				os.Exit(2)
			}
			os.Exit(1)
		}
		return
	}

	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(cfg.Log); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	var items replay.Items
	if cfg.Replay.Enabled {
		m, err := gdata.Open(gdata.Config{AppName: cfg.Replay.AppName})
		if err != nil {
			server.Log.Warnw("replay storage disabled", "err", err)
		} else {
			items = m
		}
	}

	rm := server.GetRoomManager()
	rm.Configure(*cfg, items)
	// 先预创建一个默认房间，便于快速试跑
	_ = rm.GetOrCreateRoom("room-1")

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.HandleWS)
	// 管理与监控接口
	mux.HandleFunc("/admin/config", server.HandleAdminConfig)
	mux.HandleFunc("/metrics", server.HandleMetrics)
	mux.HandleFunc("/stats", server.HandleStats)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	go func() {
		server.Log.Infof("Footsies listening on %s (tick rate %d)", cfg.Server.Addr, cfg.Server.TickRate)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Warnw("shutdown", "err", err)
	}
	rm.StopAll()
}

// verify 读取回放并重新模拟，校验和不一致时报错
func verify(appName, key string) error {
	store, err := replay.OpenStore(appName)
	if err != nil {
		return err
	}
	r, err := store.Load(key)
	if err != nil {
		return err
	}
	m, err := replay.Play(r)
	if err != nil {
		return err
	}
	w, ok := m.Winner()
	server.Log.Infow("replay verified", "key", key, "frames", r.Frames(), "rounds", m.Round(),
		"winner", w, "finished", ok, "checksum", fmt.Sprintf("%016x", r.Checksum))
	return nil
}
