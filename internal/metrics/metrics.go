package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Throughput metrics - Track uploads, mints and chain reads
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_uploads_total",
			Help: "Total number of IPFS uploads by kind and status",
		},
		[]string{"kind", "status"},
	)

	UploadedBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_uploaded_bytes_total",
			Help: "Total number of bytes added to IPFS by kind",
		},
		[]string{"kind"},
	)

	MintsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_mints_total",
			Help: "Total number of mint attempts by status",
		},
		[]string{"status"},
	)

	ContractCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_contract_calls_total",
			Help: "Total number of contract calls by method and status",
		},
		[]string{"method", "status"},
	)

	MetadataFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_metadata_fetches_total",
			Help: "Total number of metadata document fetches by status",
		},
		[]string{"status"},
	)
)

// Performance metrics - Track latency
var (
	EnumerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "minter_enumeration_duration_seconds",
		Help:    "Time taken to enumerate a range of tokens",
		Buckets: prometheus.DefBuckets,
	})

	TokenFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "minter_token_fetch_duration_seconds",
		Help:    "Time taken to read one token (uri, metadata and owner)",
		Buckets: prometheus.DefBuckets,
	})

	UploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minter_upload_duration_seconds",
			Help:    "Time taken to add a blob to IPFS",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	MintDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "minter_mint_duration_seconds",
		Help:    "Time from safeMint submission to receipt",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
	})
)

// State metrics - Track current system state
var (
	TotalSupply = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "minter_total_supply",
		Help: "Total supply seen by the last enumeration",
	})

	EnumerationFailedIndices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "minter_enumeration_failed_indices",
		Help: "Number of token indices that failed in the last enumeration",
	})
)

// Error metrics - Track failures
var (
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_errors_total",
			Help: "Total number of errors by component",
		},
		[]string{"component"},
	)
)

// Pipeline metrics - Track the enumeration worker pool
var (
	PipelineWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "minter_pipeline_worker_count",
		Help: "Number of active enumeration workers",
	})

	PipelineQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "minter_pipeline_queue_depth",
		Help: "Number of finished token reads waiting for earlier indices",
	})
)

// Status returns the label value for an error outcome
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
