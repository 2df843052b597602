// Package metrics records docnav run metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics stay optional
// without nil checks at call sites. PrometheusRecorder registers its collectors on a
// dedicated registry that can be scraped over HTTP in watch mode or written to a
// node_exporter textfile after a one-shot check.
package metrics
