package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LoginRateLimit limita tentativas de login por IP
// No máximo maxAttempts por janela; acima disso responde 429. A limpeza de
// IPs expirados acontece dentro do próprio handler (no máximo uma varredura
// por minuto), sem goroutine de fundo.
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	type entry struct {
		timestamps []time.Time
	}
	var (
		mu        sync.Mutex
		store     = make(map[string]*entry)
		lastSweep = time.Now()
	)

	prune := func(e *entry, cutoff time.Time) {
		newTs := e.timestamps[:0]
		for _, t := range e.timestamps {
			if t.After(cutoff) {
				newTs = append(newTs, t)
			}
		}
		e.timestamps = newTs
	}

	// sweep remove entradas expiradas; chamar com mu em posse
	sweep := func(now time.Time) {
		cutoff := now.Add(-window)
		for ip, e := range store {
			prune(e, cutoff)
			if len(e.timestamps) == 0 {
				delete(store, ip)
			}
		}
		lastSweep = now
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		mu.Lock()
		if now.Sub(lastSweep) >= time.Minute {
			sweep(now)
		}
		e, ok := store[ip]
		if !ok {
			e = &entry{}
			store[ip] = e
		}
		// Descarta registros fora da janela
		prune(e, now.Add(-window))
		if len(e.timestamps) >= maxAttempts {
			mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "muitas tentativas de login, aguarde um pouco",
			})
			c.Abort()
			return
		}
		e.timestamps = append(e.timestamps, now)
		mu.Unlock()
		c.Next()
	}
}
