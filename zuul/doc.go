// Package zuul fetches and models the zuul CI dashboard status
// endpoint. The status document is a tree of pipelines, change queues,
// and queue heads; each queued change carries its per-job progress.
package zuul
