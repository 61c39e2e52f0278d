package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinServerServeAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := NewDefaultGinEngine()
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewGinServer(engine, ln.Addr().String(), nil, Options{ReadHeaderTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ = io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(DefaultShutdownTimeout):
		t.Fatal("server did not shut down")
	}
}

func TestGinServerStartFailsOnBadAddr(t *testing.T) {
	srv := NewGinServer(NewDefaultGinEngine(), "256.0.0.1:-1", nil)
	assert.Error(t, srv.Start(context.Background()))
}
