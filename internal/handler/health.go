package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports DB and Redis connectivity plus the dead-letter backlog of
// the report/email queues; never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		deadLetters := gin.H{}
		if redisStatus == "connected" {
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueReport); err == nil {
				deadLetters["report"] = n
			}
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueEmail); err == nil {
				deadLetters["email"] = n
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":          status == http.StatusOK,
			"service":     "erp-conferir-engenharia",
			"db":          dbStatus,
			"redis":       redisStatus,
			"deadLetters": deadLetters,
		})
	}
}
