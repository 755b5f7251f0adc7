package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/futurebank/fbsim/internal/model"
)

// RunSummary is the compact result carried by run events.
type RunSummary struct {
	Sims             int               `json:"sims"`
	Years            int               `json:"years"`
	Seed             *uint64           `json:"seed,omitempty"`
	WithCar          bool              `json:"with_car"`
	CacheHit         bool              `json:"cache_hit"`
	ElapsedMS        int64             `json:"elapsed_ms"`
	BaselineMedian   float64           `json:"baseline_median"`
	BaselineProbLoss float64           `json:"baseline_prob_loss"`
	Comparison       *model.Comparison `json:"comparison,omitempty"`
}

// Event is emitted whenever a run completes or fails.
type Event struct {
	ID        int64      `json:"id"`
	Type      string     `json:"type"` // "run" or "run_error"
	Timestamp time.Time  `json:"timestamp"`
	Run       RunSummary `json:"run"`
	Error     string     `json:"error,omitempty"`
}

func (s *Service) emit(typ string, run RunSummary, errText string) Event {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		Run:       run,
		Error:     errText,
	}
	s.mu.Unlock()

	s.publishEvent(ev)
	return ev
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) recentEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) handleRuns(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.recentEvents())
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Replay the buffer so late subscribers see recent runs.
	for _, ev := range s.recentEvents() {
		writeSSE(w, ev)
	}
	_, _ = fmt.Fprint(w, ": ready\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
