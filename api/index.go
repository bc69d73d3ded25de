package handler

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	config "techmart-api/configs"
	"techmart-api/pkg/app"
	"techmart-api/pkg/router"
)

var (
	engine  *gin.Engine
	initErr error
	once    sync.Once
)

// setupApp はGinアプリケーションを初期化します。
// サーバーレス環境では、リクエストごとに初期化が走らないようsync.Onceで一度だけ実行します。
func setupApp() (*gin.Engine, error) {
	once.Do(func() {
		// 環境変数はVercelの設定から読み込まれるため、ここではgodotenvを呼び出しません。
		cfg := config.LoadConfig()
		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		a, err := app.New(context.Background(), cfg)
		if err != nil {
			initErr = err
			log.Printf("❌ [setupApp] Failed to initialize application: %v", err)
			return
		}
		engine = router.SetupRouter(a)
		log.Printf("🟢 [setupApp] Gin application initialized (store=%s)", cfg.StoreBackend)
	})
	return engine, initErr
}

// Handler is the Vercel serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	e, err := setupApp()
	if err != nil {
		http.Error(w, "service unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	e.ServeHTTP(w, r)
}
