package uifake

import (
	"sync"

	"github.com/jrsteele09/go-notes-client/ui"
)

var (
	_ ui.Notifier  = (*Recorder)(nil)
	_ ui.Navigator = (*Recorder)(nil)
	_ ui.Confirmer = (*Recorder)(nil)
)

// Recorder captures notices, navigation and prompts, answering confirmations with Answer.
type Recorder struct {
	Answer bool

	lock         sync.Mutex
	notices      []ui.Notice
	destinations []ui.Destination
	prompts      []string
}

func NewRecorder(answer bool) *Recorder {
	return &Recorder{Answer: answer}
}

func (r *Recorder) Notify(n ui.Notice) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Navigate(to ui.Destination) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.destinations = append(r.destinations, to)
}

func (r *Recorder) Confirm(prompt string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.prompts = append(r.prompts, prompt)
	return r.Answer
}

func (r *Recorder) Notices() []ui.Notice {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]ui.Notice(nil), r.notices...)
}

// LastNotice returns the most recent notice, or the zero Notice.
func (r *Recorder) LastNotice() ui.Notice {
	r.lock.Lock()
	defer r.lock.Unlock()
	if len(r.notices) == 0 {
		return ui.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *Recorder) Destinations() []ui.Destination {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]ui.Destination(nil), r.destinations...)
}

func (r *Recorder) Prompts() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.prompts...)
}
