package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"vecviz/internal/input"
	"vecviz/internal/logging"
	"vecviz/internal/render"
	"vecviz/internal/session"
)

const (
	requestTimeout = 2 * time.Second
	maxImageSide   = 4096
)

type Server struct {
	eng    *session.Engine
	mux    *http.ServeMux
	cam    render.Camera
	raster *render.Raster
}

// NewServer serves eng. cam is the default view for /scene.png; raster may
// be nil, which disables that route.
func NewServer(eng *session.Engine, cam render.Camera, raster *render.Raster) *Server {
	s := &Server{eng: eng, mux: http.NewServeMux(), cam: cam, raster: raster}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.health)
	s.mux.HandleFunc("/state", s.state)
	s.mux.HandleFunc("/scene", s.scene)
	s.mux.HandleFunc("/scene.png", s.scenePNG)

	s.mux.HandleFunc("/command/edit", s.editCmd)
	s.mux.HandleFunc("/command/transform", s.transformCmd)
	s.mux.HandleFunc("/command/settings", s.settingsCmd)
	s.mux.HandleFunc("/command/scale", s.scaleCmd)

	s.mux.HandleFunc("/stream", s.streamSSE)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	st, err := s.eng.GetState(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}
	writeJSON(w, st)
}

func (s *Server) scene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sc, err := s.eng.GetScene(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "json":
		writeJSON(w, sc)
	case "yaml":
		b, err := yaml.Marshal(sc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(b)
	default:
		http.Error(w, "format must be json or yaml", http.StatusBadRequest)
	}
}

func (s *Server) scenePNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	if s.raster == nil {
		http.Error(w, "rendering disabled", http.StatusNotImplemented)
		return
	}
	cam, err := cameraFromQuery(s.cam, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	st, err := s.eng.GetState(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}
	sc, err := s.eng.GetScene(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}

	var overlay []string
	if r.URL.Query().Get("math") != "0" {
		overlay = strings.Split(strings.TrimRight(st.Math, "\n"), "\n")
	}

	var buf bytes.Buffer
	if err := s.raster.WritePNG(&buf, sc, cam, overlay); err != nil {
		logging.Logger().Warn("scene render failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// cameraFromQuery applies width, height, yaw, pitch (degrees) and zoom
// overrides to base.
func cameraFromQuery(base render.Camera, r *http.Request) (render.Camera, error) {
	q := r.URL.Query()
	cam := base

	for _, p := range []struct {
		key string
		dst *int
	}{{"width", &cam.Width}, {"height", &cam.Height}} {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > maxImageSide {
				return base, fmt.Errorf("%s must be an integer in 1..%d", p.key, maxImageSide)
			}
			*p.dst = n
		}
	}

	num := func(key string) (float64, bool, error) {
		v := q.Get(key)
		if v == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s must be a number", key)
		}
		return f, true, nil
	}

	yaw, okYaw, err := num("yaw")
	if err != nil {
		return base, err
	}
	pitch, okPitch, err := num("pitch")
	if err != nil {
		return base, err
	}
	if okYaw {
		cam.Yaw = 0
		cam.Orbit(yaw*math.Pi/180, 0)
	}
	if okPitch {
		cam.Pitch = 0
		cam.Orbit(0, pitch*math.Pi/180)
	}

	zoom, ok, err := num("zoom")
	if err != nil {
		return base, err
	}
	if ok {
		if !(zoom > 0) {
			return base, errors.New("zoom must be positive")
		}
		cam.Zoom = 1
		cam.ZoomBy(zoom)
	}
	return cam, nil
}

func (s *Server) editCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Field input.Field `json:"field"`
		Text  string      `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if body.Field != input.FieldVector && body.Field != input.FieldMatrix {
		http.Error(w, "field must be vector or matrix", http.StatusBadRequest)
		return
	}

	s.do(w, r, session.EditCommand{At: time.Now(), Field: body.Field, Text: body.Text})
}

func (s *Server) transformCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Vector *string `json:"vector,omitempty"`
		Matrix *string `json:"matrix,omitempty"`
	}
	// an empty body commits the texts already held by the session
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}

	s.do(w, r, session.TransformCommand{At: time.Now(), Vector: body.Vector, Matrix: body.Matrix})
}

func (s *Server) settingsCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Name  string `json:"name"`
		Value bool   `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	s.do(w, r, session.SettingCommand{At: time.Now(), Name: body.Name, Value: body.Value})
}

func (s *Server) scaleCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Unit   float64 `json:"unit"`
		Length float64 `json:"length"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.do(w, r, session.ScaleCommand{At: time.Now(), Unit: body.Unit, Length: body.Length})
}

// do runs cmd on the engine and writes the resulting state, or the error
// with the state it left behind.
func (s *Server) do(w http.ResponseWriter, r *http.Request, cmd session.Command) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	st, err := s.eng.Do(ctx, cmd)
	if err == nil {
		writeJSON(w, map[string]any{"status": "ok", "type": cmd.Type(), "state": st})
		return
	}

	if ctx.Err() != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}

	body := errorBody{Error: err.Error(), Type: cmd.Type(), State: &st}
	status := http.StatusUnprocessableEntity
	var ie *input.Error
	switch {
	case errors.As(err, &ie):
		body.Error = ie.Message()
		body.Detail = ie.Detail()
		body.Field = ie.Field
	case errors.Is(err, session.ErrNotFinite):
		body.Error = session.MsgNotFinite
	case errors.Is(err, session.ErrInvalidScale):
	default:
		status = http.StatusBadRequest
	}
	writeJSONStatus(w, status, body)
}

type errorBody struct {
	Error  string              `json:"error"`
	Detail string              `json:"detail,omitempty"`
	Field  input.Field         `json:"field,omitempty"`
	Type   session.CommandType `json:"type"`
	State  *session.State      `json:"state,omitempty"`
}

func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	ch, unsub := s.eng.Subscribe(ctx)
	defer unsub()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, "state", st); err != nil {
				logging.Logger().Error("encode state event", "generation", st.Generation, "err", err)
				fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes one SSE event carrying v as JSON. Nothing is written
// when v cannot be encoded.
func writeEvent(w io.Writer, event string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b)
	return err
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus encodes v before writing any header, so an encoding
// failure becomes a 500 instead of an empty 200.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logging.Logger().Error("encode response", "err", err)
		http.Error(w, "encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
