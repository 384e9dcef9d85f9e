package search

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"bena/functions"
	"bena/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const debounceWindow = 300 * time.Millisecond

type liveQuery struct {
	Query string `json:"query"`
}

type liveResult struct {
	Query  string         `json:"query"`
	Places []models.Place `json:"places"`
	Error  string         `json:"error,omitempty"`
}

// GET /api/search/live (websocket)
// Each incoming message carries the current input text; the upstream
// search fires only after the input has been quiet for the debounce
// window, so superseded keystrokes never reach the function service.
func LiveSearch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	send := func(result liveResult) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(result); err != nil {
			log.Printf("live search write: %v", err)
		}
	}

	debouncer := NewDebouncer(debounceWindow, func(query string) {
		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		places, err := cachedPlaces(ctx, "search:"+query, func(ctx context.Context) ([]models.Place, error) {
			return functions.SearchPlaces(ctx, query)
		})
		if err != nil {
			send(liveResult{Query: query, Error: err.Error()})
			return
		}
		if places == nil {
			places = []models.Place{}
		}
		send(liveResult{Query: query, Places: places})
	})
	defer debouncer.Stop()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg liveQuery
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Query == "" {
			debouncer.Stop()
			continue
		}
		debouncer.Trigger(msg.Query)
	}
}
