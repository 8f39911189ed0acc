package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/imagespy/archcheck/calc"
	"github.com/imagespy/archcheck/checker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// ImageChecker checks the architectures of an image.
type ImageChecker interface {
	Check(ctx context.Context, image string) checker.Result
}

type addSerialize struct {
	Result int `json:"result"`
}

type errorSerialize struct {
	Message string `json:"message"`
}

type handler struct {
	checker    ImageChecker
	serializer func(interface{}) ([]byte, error)
}

func (h *handler) add(w http.ResponseWriter, r *http.Request) {
	a, err := strconv.Atoi(r.URL.Query().Get("a"))
	if err != nil {
		h.write(w, http.StatusBadRequest, &errorSerialize{Message: "parameter a is not an integer"})
		return
	}

	b, err := strconv.Atoi(r.URL.Query().Get("b"))
	if err != nil {
		h.write(w, http.StatusBadRequest, &errorSerialize{Message: "parameter b is not an integer"})
		return
	}

	h.write(w, http.StatusOK, &addSerialize{Result: calc.Add(a, b)})
}

func (h *handler) image(w http.ResponseWriter, r *http.Request) {
	image := chi.URLParam(r, "*")
	if image == "" {
		h.write(w, http.StatusBadRequest, &errorSerialize{Message: "image is missing"})
		return
	}

	result := h.checker.Check(r.Context(), image)
	if result.Status == checker.StatusError {
		log.Infof("checking image %s: %s", image, result.Message)
	}

	h.write(w, http.StatusOK, result)
}

func (h *handler) write(w http.ResponseWriter, status int, v interface{}) {
	b, err := h.serializer(v)
	if err != nil {
		log.Errorf("serializing response: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(b)
}

// Init returns the HTTP API. Metrics registered with g are served on /metrics.
func Init(c ImageChecker, g prometheus.Gatherer) http.Handler {
	h := &handler{
		checker:    c,
		serializer: jsonSerializer,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", healthz)
	r.Get("/v1/add", h.add)
	r.Get("/v1/images/*", h.image)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
