package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pcs_http_request_duration_seconds",
	Help:    "Duration of the HTTP requests by method and route",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

func TimeTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		requestDuration.WithLabelValues(r.Method, routeTemplate(r)).Observe(elapsed.Seconds())
		logrus.Debugf("Request %s %s returned in %v.", r.Method, r.URL.Path, elapsed)
	})
}

// routeTemplate keeps the label set bounded: ids in the path are not labels.
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}
