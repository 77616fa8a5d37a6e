package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	voiceuc "github.com/pavneets956-design/Align/internal/usecase/voice"
)

// keepAliveInterval is how often an SSE comment is sent to keep
// intermediaries from closing an idle stream.
const keepAliveInterval = 10 * time.Second

// sseEvent is one data frame on the reply stream.
type sseEvent struct {
	TargetLang string `json:"targetLang,omitempty"`
	Delta      string `json:"delta,omitempty"`
	Done       bool   `json:"done,omitempty"`
}

// streamReply writes the reply as server-sent events: a language frame,
// then one delta frame per chunk, then a terminal done frame.
// Keep-alive comments are interleaved while generation is idle.
func (s *Server) streamReply(w http.ResponseWriter, r *http.Request, reply *voiceuc.Reply) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("response writer does not support streaming")
		writeError(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream; charset=utf-8")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("X-Target-Lang", string(reply.TargetLang))
	w.WriteHeader(http.StatusOK)

	writeFrame(w, sseEvent{TargetLang: string(reply.TargetLang)})
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			// Client is gone; the pipeline observes the same context
			// and winds down on its own.
			s.logger.Debug("client disconnected mid-stream")
			return
		case <-ticker.C:
			fmt.Fprint(w, ":ka\n\n")
			flusher.Flush()
		case delta, open := <-reply.Events:
			if !open {
				writeFrame(w, sseEvent{Done: true})
				flusher.Flush()
				return
			}
			writeFrame(w, sseEvent{Delta: delta})
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, event sseEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
