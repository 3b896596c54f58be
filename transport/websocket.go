// SPDX-License-Identifier: MIT
package transport

import (
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/websocket"

	"spectrum/internal/log"
	"spectrum/render"
)

// WebSocketBinder implements render.Binder over WebSocket connections.
// Binder calls are broadcast to every connected client as JSON
// messages; textures, attributes, uniforms and the viewport are also
// cached so a client connecting mid-session receives the current scene
// before the live stream.
//
// Thread safety: the renderer drives the binder from one goroutine,
// but clients connect and disconnect concurrently, so the client map
// and the cache are mutex-protected.
type WebSocketBinder struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	cache    map[string]Message
	upgrader websocket.Upgrader
	server   *http.Server

	width  int
	height int
	caps   render.Capabilities
}

// NewWebSocketBinder creates a binder for a drawable surface of the
// given pixel size. The remote canvas is assumed to support float
// textures; a binder for a context that does not would report it here.
func NewWebSocketBinder(width, height int) *WebSocketBinder {
	return &WebSocketBinder{
		clients: make(map[*websocket.Conn]bool),
		cache:   make(map[string]Message),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local visualization surface, any origin.
			},
		},
		width:  width,
		height: height,
		caps: render.Capabilities{
			FloatTextures:  true,
			MaxTextureSize: 16384,
		},
	}
}

// Handler returns the HTTP handler that upgrades connections. Exposed
// separately so tests can mount it on httptest servers.
func (b *WebSocketBinder) Handler() http.Handler {
	return http.HandlerFunc(b.handleWebSocket)
}

// ListenAndServe starts an HTTP server on addr with the upgrade
// handler mounted at /spectrum and blocks until the server stops.
func (b *WebSocketBinder) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/spectrum", b.Handler())
	b.mu.Lock()
	b.server = &http.Server{Addr: addr, Handler: mux}
	srv := b.server
	b.mu.Unlock()

	log.Infof("transport: WebSocket binder listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (b *WebSocketBinder) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("transport: upgrade error: %v", err)
		return
	}

	// Replay the cached scene, then register for the live stream.
	b.mu.Lock()
	replay := make([]Message, 0, len(b.cache))
	keys := make([]string, 0, len(b.cache))
	for k := range b.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		replay = append(replay, b.cache[k])
	}
	for _, msg := range replay {
		if err := conn.WriteJSON(msg); err != nil {
			b.mu.Unlock()
			conn.Close()
			return
		}
	}
	b.clients[conn] = true
	total := len(b.clients)
	b.mu.Unlock()
	log.Debugf("transport: client connected, total: %d", total)

	// Drain the connection until the peer goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.mu.Lock()
				delete(b.clients, conn)
				total := len(b.clients)
				b.mu.Unlock()
				conn.Close()
				log.Debugf("transport: client disconnected, total: %d", total)
				return
			}
		}
	}()
}

// broadcast sends msg to every client and caches it under key when the
// message describes persistent scene state (empty key skips the cache).
// Callers reuse their payload slices as scratch between frames, so the
// data is snapshotted before it escapes into the cache or a writer.
func (b *WebSocketBinder) broadcast(key string, msg Message) {
	if len(msg.Data) > 0 {
		data := make([]float32, len(msg.Data))
		copy(data, msg.Data)
		msg.Data = data
	}
	b.mu.Lock()
	if key != "" {
		b.cache[key] = msg
	}
	for client := range b.clients {
		if err := client.WriteJSON(msg); err != nil {
			client.Close()
			delete(b.clients, client)
		}
	}
	b.mu.Unlock()
}

// Capabilities reports the remote context capabilities.
func (b *WebSocketBinder) Capabilities() render.Capabilities {
	return b.caps
}

// Viewport returns the drawable rectangle.
func (b *WebSocketBinder) Viewport() (x, y, width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return 0, 0, b.width, b.height
}

// SetViewport resizes the drawable rectangle and notifies clients.
func (b *WebSocketBinder) SetViewport(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.mu.Unlock()
	b.broadcast("viewport", Message{
		Kind:   KindViewport,
		Width:  width,
		Height: height,
	})
}

// SetTexture uploads the named texture to all clients.
func (b *WebSocketBinder) SetTexture(name string, tex render.Texture) {
	b.broadcast(KindTexture+"/"+name, Message{
		Kind:     KindTexture,
		Name:     name,
		Width:    tex.Width,
		Height:   tex.Height,
		Channels: tex.Channels,
		Filter:   filterName(tex.Filter),
		Wrap:     wrapName(tex.Wrap),
		Data:     tex.Data,
	})
}

// SetAttribute uploads the named vertex attribute buffer.
func (b *WebSocketBinder) SetAttribute(name string, data []float32) {
	b.broadcast(KindAttribute+"/"+name, Message{
		Kind: KindAttribute,
		Name: name,
		Data: data,
	})
}

// SetUniform sets the named uniform value.
func (b *WebSocketBinder) SetUniform(name string, values ...float32) {
	b.broadcast(KindUniform+"/"+name, Message{
		Kind: KindUniform,
		Name: name,
		Data: values,
	})
}

// Draw issues a draw call. Draws are transient and not cached: a
// late-joining client renders on the next frame's draw.
func (b *WebSocketBinder) Draw(mode render.DrawMode, first, count int) {
	b.broadcast("", Message{
		Kind:  KindDraw,
		Mode:  mode.String(),
		First: first,
		Count: count,
	})
}

// Close disconnects all clients and stops the server if one is running.
func (b *WebSocketBinder) Close() error {
	b.mu.Lock()
	for client := range b.clients {
		client.Close()
		delete(b.clients, client)
	}
	srv := b.server
	b.mu.Unlock()

	if srv != nil {
		return srv.Close()
	}
	return nil
}

// Ensure WebSocketBinder satisfies the binder contract.
var _ render.Binder = (*WebSocketBinder)(nil)
