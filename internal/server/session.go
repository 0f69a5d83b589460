package server

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// The login gate is deliberately cosmetic (a greeting screen, not a
// security boundary): one shared access code, uuid tokens in memory,
// everything gone on restart.
const (
	sessionCookieName = "qianbao_session"
	sessionDuration   = 12 * time.Hour

	// loginDelay paces the login exchange the way the original gate
	// paced its splash screen.
	loginDelay = 600 * time.Millisecond
)

type sessionStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func newSessionStore() *sessionStore {
	return &sessionStore{tokens: make(map[string]time.Time)}
}

func (s *sessionStore) issue() string {
	token := uuid.New().String()
	s.mu.Lock()
	s.tokens[token] = time.Now().Add(sessionDuration)
	s.mu.Unlock()
	return token
}

func (s *sessionStore) valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

type loginRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleLogin(c *gin.Context) {
	if !s.config.Login.Enabled {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	time.Sleep(loginDelay)

	if subtle.ConstantTimeCompare([]byte(req.Code), []byte(s.config.Login.AccessCode)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "访问码不正确"})
		return
	}

	token := s.sessions.issue()
	c.SetCookie(sessionCookieName, token, int(sessionDuration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil || !s.sessions.valid(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}
		c.Next()
	}
}
