package hub

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Yahia89/meditrans-sub003/internals/auth"
	"github.com/Yahia89/meditrans-sub003/internals/domain"
	"github.com/Yahia89/meditrans-sub003/internals/tracking"
)

// TripHub fans live-tracking output for one trip out to its websocket
// clients. Raw driver fixes go through the trip's tracking.Session, and the
// smoothed route-constrained updates are what dispatch clients receive.
type TripHub struct {
	ID string

	mu         sync.RWMutex
	clients    map[*WSClient]struct{}
	session    *tracking.Session
	lastFix    *domain.Location
	lastUpdate *tracking.Update
	offRoute   bool

	stopOnce sync.Once
	stop     chan struct{}
}

func NewHub(id string, session *tracking.Session) *TripHub {

	return &TripHub{
		ID:      id,
		clients: make(map[*WSClient]struct{}),
		session: session,
		stop:    make(chan struct{}),
	}
}

func (h *TripHub) AddClient(c *WSClient) {

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *TripHub) RemoveClient(c *WSClient) {

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *TripHub) Broadcast(msg any, filter func(*WSClient) bool) {

	b, _ := json.Marshal(msg)

	h.mu.RLock()
	for c := range h.clients {

		if filter == nil || filter(c) {
			c.Send(b)
		}
	}

	h.mu.RUnlock()
}

type positionMsg struct {
	Type string `json:"type"`
	tracking.Update
}

type deviationMsg struct {
	Type     string          `json:"type"`
	OffRoute bool            `json:"off_route"`
	Raw      domain.Location `json:"raw"`
}

// ApplyDriverFix runs a raw fix through the tracking session, remembers it,
// and pushes the resulting render update to dispatch clients. Transitions
// on/off route additionally emit a route_deviation event so the dashboard
// can flag the trip without debouncing every position message.
func (h *TripHub) ApplyDriverFix(loc domain.Location) tracking.Update {
	update := h.session.Apply(loc.Lat, loc.Lng, loc.At.UnixMilli())

	h.mu.Lock()
	h.lastFix = &loc
	h.lastUpdate = &update
	transitioned := h.offRoute == update.OnRoute
	h.offRoute = !update.OnRoute
	h.mu.Unlock()

	h.Broadcast(positionMsg{Type: "position", Update: update}, func(c *WSClient) bool { return c.Role() == auth.RoleDispatcher })

	if transitioned {
		log.Info().Str("trip", h.ID).Bool("off_route", !update.OnRoute).Msg("Route deviation state changed")
		h.Broadcast(deviationMsg{Type: "route_deviation", OffRoute: !update.OnRoute, Raw: loc}, func(c *WSClient) bool { return c.Role() == auth.RoleDispatcher })
	}

	return update
}

func (h *TripHub) LastFix() *domain.Location {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastFix
}

func (h *TripHub) LastUpdate() *tracking.Update {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastUpdate
}

// RunPredictionLoop emits dead-reckoned positions while the driver's GPS is
// quiet, so the marker keeps moving through short gaps. Runs until Close.
func (h *TripHub) RunPredictionLoop(tick, gap time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-h.stop:
			return
		case now := <-t.C:
			last := h.session.LastFixMs()
			if last == 0 || now.UnixMilli()-last < gap.Milliseconds() {
				continue
			}
			update := h.session.Predict(now.UnixMilli())
			if update == nil {
				continue
			}
			h.mu.Lock()
			h.lastUpdate = update
			h.mu.Unlock()
			h.Broadcast(positionMsg{Type: "position", Update: *update}, func(c *WSClient) bool { return c.Role() == auth.RoleDispatcher })
		}
	}
}

func (h *TripHub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// --- lightweight registry (in-memory) ---
var hubs = struct{ sync.Map }{}

// Register creates the hub for a trip when tracking starts. The prediction
// loop lives for as long as the hub does.
func Register(id string, session *tracking.Session, predictionTick, predictionGap time.Duration) *TripHub {

	h := NewHub(id, session)
	if v, loaded := hubs.LoadOrStore(id, h); loaded {
		return v.(*TripHub)
	}
	go h.RunPredictionLoop(predictionTick, predictionGap)
	return h
}

func GetHub(id string) (*TripHub, bool) {

	if v, ok := hubs.Load(id); ok {
		return v.(*TripHub), true
	}
	return nil, false
}

func RandID(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)

}

type WSClient struct {
	conn *websocket.Conn
	role auth.Role
	hub  *TripHub
	mu   sync.Mutex
}

func NewWSClient(conn *websocket.Conn, role auth.Role, h *TripHub) *WSClient {

	return &WSClient{
		conn: conn,
		role: role,
		hub:  h,
	}
}
func (c *WSClient) Send(b []byte) {

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = c.conn.Write(ctx, websocket.MessageText, b)

}

func (c *WSClient) Role() auth.Role { return c.role }

func (c *WSClient) SendJSON(msg any) {

	b, _ := json.Marshal(msg)
	c.Send(b)
}
