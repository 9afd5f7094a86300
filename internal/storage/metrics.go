package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var documentReads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_document_reads_total",
		Help: "How many collection documents were read, partitioned by file name.",
	},
	[]string{"collection"},
)

var documentWrites = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_document_writes_total",
		Help: "How many collection documents were written, partitioned by file name.",
	},
	[]string{"collection"},
)
