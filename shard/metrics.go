package shard

import "github.com/prometheus/client_golang/prometheus"

var (
	Selections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hrw_shard_selections_total", Help: "Keys routed to each shard"},
		[]string{"shard"},
	)
	Rebuilds = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "hrw_shard_rebuilds_total", Help: "Shard set rebuilds"},
	)
	ShardCount = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "hrw_shards", Help: "Shards in the current set"},
	)
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(Selections, Rebuilds, ShardCount)
}
