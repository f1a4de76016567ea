package client

import (
	"encoding/json"
	"net/http"
)

// NewAdminMux 旁观与监控接口：/ws /metrics /session /healthz
func NewAdminMux(s *Session, hub *SpectatorHub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)
	mux.HandleFunc("/metrics", HandleMetrics(s))
	mux.HandleFunc("/session", HandleSession(s, hub))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// HandleMetrics 输出本局运行指标
// GET /metrics
func HandleMetrics(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, map[string]any{
			"session": s.ID.String(),
			"metrics": s.Metrics().Snapshot(),
		})
	}
}

// HandleSession 输出会话概况
// GET /session
func HandleSession(s *Session, hub *SpectatorHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, map[string]any{
			"session":    s.ID.String(),
			"local":      int(s.Local()),
			"state":      s.State().String(),
			"spectators": hub.Count(),
			"dropped":    hub.Dropped(),
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
