package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sileht/zuup/gerrit"
	"github.com/sileht/zuup/zuul"
)

// progressWidth is the number of cells in a job progress bar.
const progressWidth = 7

// Renderer formats one review's zuul progress as terminal text.
type Renderer struct {
	// Short renders a single line per review with one letter per job.
	Short bool

	// RunningOnly hides finished successful jobs in the details.
	RunningOnly bool

	// Now supplies the current time, for tests. Defaults to time.Now.
	Now func() time.Time
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Review renders a change and the gerrit review it belongs to.
func (r *Renderer) Review(loc zuul.Located, review gerrit.Review) string {
	change := loc.Change

	var b strings.Builder
	if !r.Short {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "[%s] %s[%d]: %s",
		color.New(color.FgWhite, color.Bold).Sprint(review.Project),
		color.New(color.FgWhite).Sprint(loc.Pipeline),
		len(change.ItemsBehind),
		color.New(color.FgYellow).Sprint(change.URL),
	)
	if !r.Short {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, " %s %s/%s ",
		color.New(color.FgCyan).Sprint(review.SubjectLine()),
		r.clock(change.EnqueueTime, false, false),
		r.clock(change.RemainingTime, true, false),
	)

	var details strings.Builder
	for _, job := range change.Jobs {
		if r.Short {
			b.WriteString(shortCell(job))
			if job.Result != zuul.ResultFailure {
				continue
			}
		}
		if r.RunningOnly && (job.Result == zuul.ResultSuccess || job.LogURL() == "") {
			continue
		}

		fmt.Fprintf(&details, "\n - %s %-8s %s %s",
			progressBar(job),
			dimUnlessVoting(job, r.clock(job.RemainingTime, true, job.Finished())),
			dimUnlessVoting(job, job.Name),
			color.New(color.FgYellow).Sprint(job.LogURL()),
		)
	}

	b.WriteString(details.String())
	return b.String()
}

// clock formats a millisecond timestamp or duration as HH:MM:SS,
// zero-padded to eight columns. Absent or finished values render as
// "--:--:--". When delta is false the value is a start timestamp and
// the elapsed time since it is shown.
func (r *Renderer) clock(ms *int64, delta, finished bool) string {
	if ms == nil || finished {
		return "--:--:--"
	}

	seconds := *ms / 1000
	if !delta {
		seconds = int64(r.now().Unix()) - seconds
	}
	if seconds < 0 {
		seconds = 0
	}

	d := time.Duration(seconds) * time.Second
	text := fmt.Sprintf("%d:%02d:%02d",
		int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	if len(text) < 8 {
		text = strings.Repeat("0", 8-len(text)) + text
	}
	return text
}

// progressBar renders a job as a 7-cell bar while running, or its
// colored terminal result.
func progressBar(job zuul.Job) string {
	switch job.Result {
	case zuul.ResultSuccess:
		return colorVoting(job, color.FgGreen).Sprint("SUCCESS")
	case zuul.ResultFailure:
		return colorVoting(job, color.FgRed).Sprint("FAILURE")
	}

	progress := strings.Repeat(".", progressWidth)
	if job.RemainingTime != nil && job.ElapsedTime != nil {
		total := *job.RemainingTime + *job.ElapsedTime
		if total > 0 {
			elapsed := int(*job.ElapsedTime * progressWidth / total)
			remaining := progressWidth - elapsed
			progress = strings.Repeat("=", elapsed) + strings.Repeat(".", remaining)
		}
	}
	return colorVoting(job, 0).Sprint(progress)
}

// shortCell renders a job as a single colored letter: S, F, or P for
// still-pending.
func shortCell(job zuul.Job) string {
	switch job.Result {
	case zuul.ResultSuccess:
		return colorVoting(job, color.FgGreen).Sprint("S")
	case zuul.ResultFailure:
		return colorVoting(job, color.FgRed).Sprint("F")
	default:
		return colorVoting(job, color.FgYellow).Sprint("P")
	}
}

// colorVoting builds a color in the given foreground, bold for voting
// jobs and faint for non-voting ones.
func colorVoting(job zuul.Job, fg color.Attribute) *color.Color {
	var c *color.Color
	if fg == 0 {
		c = color.New()
	} else {
		c = color.New(fg)
	}
	if job.Voting {
		c = c.Add(color.Bold)
	} else {
		c = c.Add(color.Faint)
	}
	return c
}

// dimUnlessVoting renders text faint for non-voting jobs.
func dimUnlessVoting(job zuul.Job, text string) string {
	if job.Voting {
		return text
	}
	return color.New(color.Faint).Sprint(text)
}
