// SPDX-License-Identifier: MIT
package transport

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"spectrum/render"
)

func dialBinder(t *testing.T, b *WebSocketBinder) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestLateJoinerReceivesCachedScene(t *testing.T) {
	b := NewWebSocketBinder(800, 200)
	defer b.Close()

	// Push scene state before any client exists.
	b.SetTexture("magnitudes", render.Texture{
		Width: 4, Height: 1, Channels: 1,
		Data:   []float32{0.1, 0.2, 0.3, 0.4},
		Filter: render.FilterLinear, Wrap: render.WrapClampToEdge,
	})
	b.SetUniform("align", 0.5)

	conn := dialBinder(t, b)

	// Replay arrives in sorted cache-key order: textures before uniforms.
	tex := readMessage(t, conn)
	if tex.Kind != KindTexture || tex.Name != "magnitudes" {
		t.Fatalf("first replay message = %+v, want magnitudes texture", tex)
	}
	if tex.Width != 4 || tex.Channels != 1 || len(tex.Data) != 4 {
		t.Errorf("texture payload = %+v", tex)
	}
	if tex.Filter != "linear" || tex.Wrap != "clamp" {
		t.Errorf("sampling state = %q/%q, want linear/clamp", tex.Filter, tex.Wrap)
	}

	uni := readMessage(t, conn)
	if uni.Kind != KindUniform || uni.Name != "align" {
		t.Fatalf("second replay message = %+v, want align uniform", uni)
	}
	if len(uni.Data) != 1 || uni.Data[0] != 0.5 {
		t.Errorf("uniform payload = %v, want [0.5]", uni.Data)
	}
}

func TestLiveBroadcast(t *testing.T) {
	b := NewWebSocketBinder(800, 200)
	defer b.Close()

	conn := dialBinder(t, b)

	// Give the server a moment to register the client before the draw.
	deadline := time.Now().Add(time.Second)
	for {
		b.mu.Lock()
		n := len(b.clients)
		b.mu.Unlock()
		if n == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	b.Draw(render.DrawTriangleStrip, 0, 400)
	msg := readMessage(t, conn)
	if msg.Kind != KindDraw || msg.Mode != "triangle-strip" || msg.Count != 400 {
		t.Errorf("draw message = %+v", msg)
	}
}

func TestDrawIsNotCached(t *testing.T) {
	b := NewWebSocketBinder(800, 200)
	defer b.Close()

	b.Draw(render.DrawLineStrip, 0, 10)
	b.SetUniform("group", 4)

	conn := dialBinder(t, b)
	msg := readMessage(t, conn)
	if msg.Kind == KindDraw {
		t.Fatal("transient draw call must not be replayed to late joiners")
	}
	if msg.Kind != KindUniform || msg.Name != "group" {
		t.Errorf("replay message = %+v, want group uniform", msg)
	}
}

func TestCacheSnapshotsScratchData(t *testing.T) {
	b := NewWebSocketBinder(800, 200)
	defer b.Close()

	// The renderer reuses one scratch slice across frames; the cache
	// must hold the values from upload time, not the live slice.
	scratch := []float32{0.1, 0.2, 0.3, 0.4}
	b.SetTexture("magnitudes", render.Texture{
		Width: 4, Height: 1, Channels: 1,
		Data:   scratch,
		Filter: render.FilterLinear, Wrap: render.WrapClampToEdge,
	})
	for i := range scratch {
		scratch[i] = -1
	}

	conn := dialBinder(t, b)
	msg := readMessage(t, conn)
	want := []float32{0.1, 0.2, 0.3, 0.4}
	for i, v := range want {
		if msg.Data[i] != v {
			t.Fatalf("replayed data = %v, want %v", msg.Data, want)
		}
	}
}

func TestLateJoinerDuringSustainedWrites(t *testing.T) {
	b := NewWebSocketBinder(800, 200)
	defer b.Close()

	// One writer goroutine rewriting its scratch slice every frame,
	// clients joining mid-stream. Replay must never read the writer's
	// live slice.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scratch := make([]float32, 64)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			for j := range scratch {
				scratch[j] = float32(i + j)
			}
			b.SetTexture("magnitudes", render.Texture{
				Width: len(scratch), Height: 1, Channels: 1,
				Data:   scratch,
				Filter: render.FilterLinear, Wrap: render.WrapClampToEdge,
			})
		}
	}()

	for i := 0; i < 3; i++ {
		conn := dialBinder(t, b)
		msg := readMessage(t, conn)
		if msg.Kind != KindTexture || msg.Name != "magnitudes" || len(msg.Data) != 64 {
			t.Fatalf("replay message = %+v", msg)
		}
		conn.Close()
	}

	close(stop)
	wg.Wait()
}

func TestViewport(t *testing.T) {
	b := NewWebSocketBinder(800, 200)
	defer b.Close()

	if _, _, w, h := b.Viewport(); w != 800 || h != 200 {
		t.Errorf("viewport = %dx%d, want 800x200", w, h)
	}
	b.SetViewport(1024, 300)
	if _, _, w, h := b.Viewport(); w != 1024 || h != 300 {
		t.Errorf("viewport after resize = %dx%d, want 1024x300", w, h)
	}

	conn := dialBinder(t, b)
	msg := readMessage(t, conn)
	if msg.Kind != KindViewport || msg.Width != 1024 || msg.Height != 300 {
		t.Errorf("cached viewport message = %+v", msg)
	}
}
