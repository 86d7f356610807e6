package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/glasspool/internal/logger"
	"github.com/Faultbox/glasspool/internal/network/packets"
	"github.com/Faultbox/glasspool/internal/pool"
)

const maxUpdateBytes = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Viewers are native clients; there is no browser origin to check.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler serves the viewer socket and the update API.
type Handler struct {
	Hub *Hub

	// Mirror tracks the last values seen from viewers and the API.
	Mirror *pool.State

	log *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(h *Hub, mirror *pool.State) *Handler {
	return &Handler{Hub: h, Mirror: mirror, log: logger.Named("api")}
}

// Router builds the HTTP routes:
//
//	GET  /ws/pool       viewer WebSocket
//	GET  /api/v1/pool   last known parameters
//	POST /api/v1/pool   broadcast an update to every viewer
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws/pool", h.ServeWS).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/pool", h.GetPool).Methods(http.MethodGet)
	api.HandleFunc("/pool", h.PostUpdate).Methods(http.MethodPost)
	return r
}

// ServeWS upgrades a viewer connection and pumps messages both ways.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	v := NewViewer(conn)
	if !h.Hub.Join(v) {
		conn.Close()
		return
	}

	go h.writePump(v)
	go h.readPump(v)
}

// readPump consumes viewer messages. Viewers only ever send init snapshots.
func (h *Handler) readPump(v *Viewer) {
	defer func() {
		h.Hub.Leave(v)
		v.Conn.Close()
	}()

	for {
		_, data, err := v.Conn.ReadMessage()
		if err != nil {
			return
		}

		var init packets.Init
		if err := json.Unmarshal(data, &init); err != nil || init.Type != packets.TypeInit {
			h.log.Warn("unexpected viewer message", zap.String("viewer", v.ID), zap.ByteString("payload", data))
			continue
		}

		h.log.Info("viewer init",
			zap.String("viewer", v.ID),
			zap.Float32("level", init.WaterLevel),
			zap.String("color", init.WaterColor),
			zap.Float32("opacity", init.WaterOpacity),
			zap.Float32("movement", init.WaterMovement))

		if u, err := packets.Decode(data); err == nil {
			h.Mirror.Apply(u.Patch())
		}
	}
}

func (h *Handler) writePump(v *Viewer) {
	for msg := range v.Send {
		_ = v.Conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := v.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("write failed", zap.String("viewer", v.ID), zap.Error(err))
			v.Conn.Close()
			return
		}
	}
	_ = v.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(time.Second))
	v.Conn.Close()
}

type updateResponse struct {
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

// PostUpdate validates an update and broadcasts its valid fields, re-encoded.
// Bad fields are reported back and dropped; the rest still go out.
func (h *Handler) PostUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpdateBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("update larger than %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := packets.Decode(body)
	if errors.Is(err, packets.ErrMalformed) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := updateResponse{Status: "accepted"}
	for _, fe := range packets.FieldErrors(err) {
		resp.Warnings = append(resp.Warnings, fe.Error())
	}

	if u.Empty() {
		resp.Status = "ignored"
		writeJSON(w, http.StatusAccepted, resp)
		return
	}

	msg, err := json.Marshal(u)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	changed := h.Mirror.Apply(u.Patch())
	if !h.Hub.Broadcast(msg) {
		http.Error(w, "hub stopped", http.StatusServiceUnavailable)
		return
	}
	h.log.Info("update broadcast", zap.Stringer("changed", changed), zap.Int("viewers", h.Hub.Count()))

	writeJSON(w, http.StatusAccepted, resp)
}

// GetPool returns the last known parameters in init form.
func (h *Handler) GetPool(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, packets.NewInit(h.Mirror.Snapshot()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
