package zuul

// Job result values reported by zuul.
const (
	ResultSuccess = "SUCCESS"
	ResultFailure = "FAILURE"
)

// Status is the decoded status.json document.
type Status struct {
	Pipelines []Pipeline `json:"pipelines"`
}

// Pipeline is a named pipeline (check, gate, post, ...).
type Pipeline struct {
	Name         string        `json:"name"`
	ChangeQueues []ChangeQueue `json:"change_queues"`
}

// ChangeQueue holds the heads of one shared queue; each head is a
// window of dependent changes.
type ChangeQueue struct {
	Name  string     `json:"name"`
	Heads [][]Change `json:"heads"`
}

// Change is one queued review with its job progress. Times are epoch
// milliseconds; nil means zuul has not reported the value.
type Change struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Project       string `json:"project"`
	EnqueueTime   *int64 `json:"enqueue_time"`
	RemainingTime *int64 `json:"remaining_time"`
	ItemsBehind   []any  `json:"items_behind"`
	Jobs          []Job  `json:"jobs"`
}

// Job is one CI job attached to a change. Durations are milliseconds.
type Job struct {
	Name          string            `json:"name"`
	Result        string            `json:"result"`
	Voting        bool              `json:"voting"`
	URL           string            `json:"url"`
	ElapsedTime   *int64            `json:"elapsed_time"`
	RemainingTime *int64            `json:"remaining_time"`
	Parameters    map[string]string `json:"parameters"`
}

// Finished reports whether the job has a terminal result.
func (j Job) Finished() bool {
	return j.Result == ResultSuccess || j.Result == ResultFailure
}

// LogURL returns the best URL for the job's logs: the published log
// site once the job finished, the live stream URL otherwise.
func (j Job) LogURL() string {
	if j.Finished() {
		if path, ok := j.Parameters["LOG_PATH"]; ok {
			return "http://logs.openstack.org/" + path
		}
	}
	return j.URL
}

// Located pairs a change with the pipeline it sits in.
type Located struct {
	Pipeline string
	Change   Change
}

// Find walks the pipeline tree and returns every change whose review
// URL is in urls, in document order.
func (s *Status) Find(urls map[string]bool) []Located {
	var found []Located
	for _, pipeline := range s.Pipelines {
		for _, queue := range pipeline.ChangeQueues {
			for _, head := range queue.Heads {
				for _, change := range head {
					if urls[change.URL] {
						found = append(found, Located{
							Pipeline: pipeline.Name,
							Change:   change,
						})
					}
				}
			}
		}
	}
	return found
}
