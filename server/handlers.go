package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jannev/chipfx/audio"
)

// panelEffect is one row of the control panel.
type panelEffect struct {
	ID       int
	Name     string
	Wave     string
	Settings string
}

// panelCategory groups effects for display.
type panelCategory struct {
	Name    string
	Effects []panelEffect
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var categories []panelCategory
	byName := map[string]int{}

	for _, sfx := range audio.Library {
		idx, ok := byName[sfx.Category]
		if !ok {
			idx = len(categories)
			byName[sfx.Category] = idx
			categories = append(categories, panelCategory{Name: sfx.Category})
		}
		categories[idx].Effects = append(categories[idx].Effects, panelEffect{
			ID:       sfx.ID,
			Name:     sfx.Name,
			Wave:     sfx.WaveName(),
			Settings: sfx.SettingsString(),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.panel.Execute(w, categories); err != nil {
		s.logger.Error("render panel", slog.Any("error", err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleEffects(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(audio.Library); err != nil {
		s.logger.Error("encode effects", slog.Any("error", err))
	}
}

func (s *Server) effectFromRequest(w http.ResponseWriter, r *http.Request) *audio.SoundEffect {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid effect id", http.StatusBadRequest)
		return nil
	}
	sfx := audio.Effect(id)
	if sfx == nil {
		http.Error(w, "no such effect", http.StatusNotFound)
		return nil
	}
	return sfx
}

func (s *Server) handleEffectWav(w http.ResponseWriter, r *http.Request) {
	sfx := s.effectFromRequest(w, r)
	if sfx == nil {
		return
	}

	wav := s.renderWav(sfx.SettingsString())
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	w.Write(wav)
}

func (s *Server) handleEffectURI(w http.ResponseWriter, r *http.Request) {
	sfx := s.effectFromRequest(w, r)
	if sfx == nil {
		return
	}

	wav := s.renderWav(sfx.SettingsString())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(audio.DataURI(wav)))
}

// renderRequest is the POST /api/render body.
type renderRequest struct {
	Settings string `json:"settings"`
}

// renderResponse carries the rendered resource back to the caller.
type renderResponse struct {
	URI     string `json:"uri"`
	Samples int    `json:"samples"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		req.Settings = r.FormValue("settings")
	}

	if req.Settings == "" {
		http.Error(w, "missing settings", http.StatusBadRequest)
		return
	}

	wav := s.renderWav(req.Settings)
	resp := renderResponse{
		URI:     audio.DataURI(wav),
		Samples: (len(wav) - audio.WavHeaderSize) / 2,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode render response", slog.Any("error", err))
	}
}
