package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"leadscrape/internal/leads"
)

// Spinner renders collection progress on a terminal and implements
// leads.Observer.
type Spinner struct {
	mu     sync.Mutex
	s      *spinner.Spinner
	status string
	target int
}

var _ leads.Observer = (*Spinner)(nil)

// New returns a Spinner writing to w. It stays silent when w is not a
// terminal.
func New(w io.Writer) *Spinner {
	s := spinner.New(spinner.CharSets[14], 120*time.Millisecond, spinner.WithWriter(w))
	return &Spinner{s: s}
}

func (p *Spinner) Start(term string, target int) {
	p.mu.Lock()
	p.target = target
	p.mu.Unlock()
	p.set(fmt.Sprintf(" searching %q", term))
	p.s.Start()
}

func (p *Spinner) LeadAccepted(rec leads.LeadRecord, have, target int) {
	p.set(fmt.Sprintf(" %d/%d leads, last: %s", have, target, rec.Name))
}

func (p *Spinner) PassCompleted(ps leads.PassStats) {
	p.mu.Lock()
	target := p.target
	p.mu.Unlock()

	msg := fmt.Sprintf(" %d/%d leads, scroll %d, %d rendered", ps.Total, target, ps.Expansions, ps.Rendered)
	if ps.Stalled {
		msg += " (feed not growing)"
	}
	p.set(msg)
}

// Stop halts the animation and leaves final on its own line.
func (p *Spinner) Stop(final string) {
	if final != "" {
		p.s.FinalMSG = final + "\n"
	}
	p.s.Stop()
}

// Status returns the current progress line.
func (p *Spinner) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Spinner) set(status string) {
	p.mu.Lock()
	p.status = status
	p.mu.Unlock()

	p.s.Lock()
	p.s.Suffix = status
	p.s.Unlock()
}
