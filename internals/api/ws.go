package api

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/Yahia89/meditrans-sub003/internals/auth"
	"github.com/Yahia89/meditrans-sub003/internals/domain"
	"github.com/Yahia89/meditrans-sub003/internals/hub"
	"github.com/Yahia89/meditrans-sub003/internals/tracking"
)

func handleWS(c *gin.Context) {
	// 1) Accept JWT from Authorization header OR from `?token=` for browser clients
	claims, err := auth.ParseTokenFromRequest(c.Request)
	if err != nil {
		if tok := c.Query("token"); tok != "" {
			claims, err = auth.ParseToken(tok)
		}
	}
	if err != nil {
		c.String(401, "unauthorized")
		return
	}

	// 2) Trip ID (supports wildcard route /ws/*tripID)
	tripID := strings.TrimPrefix(c.Param("tripID"), "/")
	if tripID == "" || tripID != claims.TripID {
		c.String(403, "trip mismatch")
		return
	}

	h, ok := hub.GetHub(tripID)
	if !ok {
		c.String(404, "no active tracking for trip")
		return
	}

	// 3) Upgrade to WebSocket
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{InsecureSkipVerify: true}) // TODO: use OriginPatterns in prod
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	conn.SetReadLimit(1 << 20)

	// 4) Register client in the per-trip hub
	client := hub.NewWSClient(conn, claims.Role, h)
	h.AddClient(client)
	defer h.RemoveClient(client)

	// 5) On connect, dispatchers get the last computed position straight away
	if claims.Role == auth.RoleDispatcher {
		if u := h.LastUpdate(); u != nil {
			client.SendJSON(struct {
				Type string `json:"type"`
				tracking.Update
			}{Type: "position", Update: *u})
		}
	}

	// 6) Keepalive pings
	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for range t.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = conn.Ping(ctx)
			cancel()
		}
	}()

	// 7) Read loop: drivers stream fixes, the hub fans out computed updates
	for {
		mt, data, err := conn.Read(context.Background())
		if err != nil {
			break
		}
		if mt != websocket.MessageText {
			continue
		}
		var m fixMsg
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		if m.Type != "driver_fix" || claims.Role != auth.RoleDriver {
			continue
		}
		loc := domain.Location{Lat: m.Lat, Lng: m.Lng, Speed: m.Speed, Heading: m.Heading, Accuracy: m.Accuracy, At: tsOrNow(m.AtMs)}
		if !loc.IsValid() {
			continue
		}
		h.ApplyDriverFix(loc)
	}
}
