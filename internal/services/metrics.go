package services

import "github.com/prometheus/client_golang/prometheus"

var historyRows = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generation_history_rows_total",
		Help: "History rows appended, by tool.",
	},
	[]string{"tool"},
)

func init() {
	prometheus.MustRegister(historyRows)
}
