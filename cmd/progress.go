package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/masmgr/changelog-go/internal/git"
)

// pageProgress shows a spinner with a running commit count while history
// is paged. A nil *pageProgress is a no-op.
type pageProgress struct {
	spin    *spinner.Spinner
	scanned int
}

// newPageProgress returns nil unless out is a terminal.
func newPageProgress(out *os.File) *pageProgress {
	if out == nil || !term.IsTerminal(int(out.Fd())) {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " reading history"
	return &pageProgress{spin: s}
}

func (p *pageProgress) Start() {
	if p != nil {
		p.spin.Start()
	}
}

func (p *pageProgress) Commit(git.CommitRecord) {
	if p == nil {
		return
	}
	p.scanned++
	p.spin.Lock()
	p.spin.Suffix = fmt.Sprintf(" %d commits read", p.scanned)
	p.spin.Unlock()
}

func (p *pageProgress) Stop() {
	if p != nil {
		p.spin.Stop()
	}
}
