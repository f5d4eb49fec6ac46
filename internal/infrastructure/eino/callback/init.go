package callback

import (
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"

	"essay-ai-api/internal/domain/service"
)

var initOnce sync.Once

// Init 注册 Eino 全局 callbacks（进程级一次）。
func Init(usageRecorder service.UsageRecorder) {
	initOnce.Do(func() {
		einocallbacks.AppendGlobalHandlers(NewHandler(usageRecorder))
	})
}
