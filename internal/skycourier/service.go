package skycourier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skycourier/internal/engine"
	"skycourier/internal/geo"
	"skycourier/internal/metrics"
	"skycourier/internal/openmeteo"
	"skycourier/internal/osrm"
	"skycourier/internal/risk"
	"skycourier/internal/routing"
	t "skycourier/internal/types"
	"skycourier/internal/weather"
)

const (
	minStops    = 2
	maxStops    = 12
	forecastTTL = 15 * time.Minute
)

type OptimizeRequest struct {
	Stops []string `json:"stops"`
}

type OptimizeResponse struct {
	Error   string           `json:"error,omitempty"`
	Summary *t.Summary       `json:"summary,omitempty"`
	Stops   []t.Stop         `json:"stops,omitempty"`
	Legs    []t.AnnotatedLeg `json:"legs,omitempty"`
}

type CodeError struct {
	code int
	msg  string
}

func (c CodeError) Error() string {
	return c.msg
}

type Service struct {
	routing      routing.Provider
	weather      weather.Provider
	engine       *engine.Engine
	rc           *redis.Client
	disableRedis bool
	catalog      []t.Stop
	stopIndex    map[string]t.Stop
	addr         string

	Logger *zap.SugaredLogger
}

func New() *Service {
	s := &Service{}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	s.Logger = baseLogger.Sugar()

	geoCfg := geo.DefaultConfig()
	if v, err := strconv.ParseFloat(os.Getenv("cruise_speed_kmh"), 64); err == nil && v > 0 {
		geoCfg.CruiseSpeedKMH = v
	}
	calc := geo.NewCalculator(geoCfg)
	s.engine = engine.New(calc, risk.NewClassifier(risk.DefaultConfig()))

	switch os.Getenv("routing_mode") {
	case "osrm":
		s.routing = osrm.New(
			osrm.BaseUrlOption(os.Getenv("osrm_baseurl")),
		)
	default:
		s.routing = routing.NewGreatCircle(calc)
	}

	switch os.Getenv("weather_mode") {
	case "openmeteo":
		var p weather.Provider = openmeteo.New(
			openmeteo.BaseUrlOption(os.Getenv("openmeteo_baseurl")),
		)
		rps, err := strconv.ParseFloat(os.Getenv("openmeteo_rps"), 64)
		if err == nil && rps > 0 {
			p = weather.NewRateLimited(p, rps, 1)
		}
		s.weather = p
	default:
		s.weather = weather.NewSynthetic(time.Now().UnixNano())
	}

	s.rc = redis.NewClient(&redis.Options{
		Addr: os.Getenv("redis_address"),
	})

	disableRedis, err := strconv.ParseBool(os.Getenv("disable_redis"))
	if err == nil {
		s.disableRedis = disableRedis
	}

	s.addr = ":80"
	if v := os.Getenv("listen_address"); v != "" {
		s.addr = v
	}

	s.catalog = Catalog()
	s.stopIndex = make(map[string]t.Stop, len(s.catalog))
	for _, stop := range s.catalog {
		s.stopIndex[stop.ID] = stop
	}

	metrics.RegisterDefault()
	return s
}

func (s *Service) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stops", s.StopsHandler)
	mux.HandleFunc("/api/optimize", s.OptimizeHandler)
	mux.HandleFunc("/health", s.HealthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.withMetrics(mux),
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	s.Logger.Infow("listening", "addr", s.addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]string{"status": "ok", "service": "skycourier"})
}

func (s *Service) StopsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, s.catalog)
}

func (s *Service) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Optimize(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, resp)
}

func (s *Service) Optimize(ctx context.Context, r *http.Request) (*OptimizeResponse, error) {
	req, err := s.parseRequest(r)
	if err != nil {
		return nil, err
	}

	stops, err := s.resolveStops(req.Stops)
	if err != nil {
		return nil, err
	}

	legs, err := s.legs(ctx, stops)
	if err != nil {
		return nil, err
	}

	observations, err := s.forecasts(ctx, stops[1:])
	if err != nil {
		return nil, err
	}

	annotated := make([]t.AnnotatedLeg, 0, len(legs))
	for i, leg := range legs {
		merged, err := s.engine.Merge(leg, observations[i])
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", leg.Sequence, err)
		}
		annotated = append(annotated, merged)
	}

	summary, err := s.engine.Aggregate(annotated)
	if err != nil {
		return nil, err
	}

	return &OptimizeResponse{
		Summary: &summary,
		Stops:   stops,
		Legs:    annotated,
	}, nil
}

func (s *Service) parseRequest(r *http.Request) (*OptimizeRequest, error) {
	if r.Method != http.MethodPost {
		return nil, CodeError{code: 405, msg: "Use POST for /api/optimize"}
	}

	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, CodeError{code: 400, msg: "Invalid JSON request body"}
	}
	if len(req.Stops) < minStops {
		return nil, CodeError{code: 400, msg: fmt.Sprintf("Select at least %d stops", minStops)}
	}
	if len(req.Stops) > maxStops {
		return nil, CodeError{code: 400, msg: fmt.Sprintf("Select at most %d stops", maxStops)}
	}
	return &req, nil
}

func (s *Service) resolveStops(ids []string) ([]t.Stop, error) {
	stops := make([]t.Stop, 0, len(ids))
	for _, id := range ids {
		stop, ok := s.stopIndex[id]
		if !ok {
			return nil, CodeError{code: 400, msg: fmt.Sprintf("Unknown stop id '%v'", id)}
		}
		stops = append(stops, stop)
	}
	return stops, nil
}

func (s *Service) legs(ctx context.Context, stops []t.Stop) ([]t.Leg, error) {
	legs := make([]t.Leg, 0, len(stops)-1)
	for i := 1; i < len(stops); i++ {
		leg, err := s.routing.Leg(ctx, i, stops[i-1], stops[i])
		if err != nil {
			s.Logger.Errorw(err.Error(),
				"origin", stops[i-1].ID, "destination", stops[i].ID, "action", "Leg")
			return nil, CodeError{code: 500, msg: "Internal error retrieving route leg."}
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

// forecasts fetches one destination-side observation per leg,
// concurrently. Any failed lookup fails the whole request; a route is
// never scored against partial weather.
func (s *Service) forecasts(ctx context.Context, destinations []t.Stop) ([]t.Observation, error) {
	observations := make([]t.Observation, len(destinations))
	g, ctx := errgroup.WithContext(ctx)

	for i, stop := range destinations {
		i, stop := i, stop
		g.Go(func() error {
			obs, err := s.forecast(ctx, stop)
			if err != nil {
				s.Logger.Errorw(err.Error(),
					"stop", stop.ID, "action", "Forecast")
				return &weather.UnavailableError{Stop: stop.Name, Err: err}
			}
			observations[i] = obs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return observations, nil
}

func (s *Service) forecast(ctx context.Context, stop t.Stop) (t.Observation, error) {
	hour := time.Now().UTC().Truncate(time.Hour).Unix()
	key := fmt.Sprintf("wx:%v:%d", stop.ID, hour)

	if !s.disableRedis {
		payload, err := s.rc.Get(ctx, key).Result()
		if err == nil {
			var obs t.Observation
			if err := json.Unmarshal([]byte(payload), &obs); err == nil {
				metrics.WeatherLookups.WithLabelValues("cache", "hit").Inc()
				return obs, nil
			}
			s.Logger.Errorf("Error unmarshalling cached forecast for %v: %v", stop.ID, err)
		} else if err != redis.Nil {
			s.Logger.Errorf("Redis error fetching forecast for %v: %v", stop.ID, err)
		}
	}

	obs, err := s.weather.Forecast(ctx, stop)
	if err != nil {
		metrics.WeatherLookups.WithLabelValues("provider", "error").Inc()
		return t.Observation{}, err
	}
	metrics.WeatherLookups.WithLabelValues("provider", "ok").Inc()

	if !s.disableRedis {
		payload, err := json.Marshal(obs)
		if err == nil {
			if err := s.rc.Set(ctx, key, payload, forecastTTL).Err(); err != nil {
				s.Logger.Warnf("Redis error caching forecast for %v: %v", stop.ID, err)
			}
		}
	}
	return obs, nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (s *Service) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		dur := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, r.URL.Path).Observe(dur.Seconds())
		s.Logger.Infow("request",
			"method", r.Method, "path", r.URL.Path, "status", sw.status, "dur_ms", dur.Milliseconds())
	})
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	var codeErr CodeError
	var valErr t.ValidationError
	var wxErr *weather.UnavailableError

	code, msg := 500, "Internal server error"
	switch {
	case errors.As(err, &codeErr):
		code, msg = codeErr.code, codeErr.msg
	case errors.Is(err, engine.ErrEmptyRoute):
		code, msg = 400, err.Error()
	case errors.As(err, &valErr):
		code, msg = 400, err.Error()
	case errors.As(err, &wxErr):
		code, msg = 502, err.Error()
	}

	bodyBytes, _ := json.Marshal(OptimizeResponse{Error: msg})
	w.WriteHeader(code)
	io.WriteString(w, string(bodyBytes[:]))
}

func (s *Service) writeResponse(w http.ResponseWriter, resp interface{}) {
	bodyBytes, _ := json.Marshal(resp)
	w.WriteHeader(200)
	io.WriteString(w, string(bodyBytes[:]))
}
