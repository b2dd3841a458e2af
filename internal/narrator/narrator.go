// Package narrator produces the scripted thinking narration that gives the
// client early feedback while the graph executes. The sequence is cosmetic:
// it carries no information about actual graph progress.
package narrator

import (
	"context"
	"time"
)

// Pacer introduces a delay between emitted items. Implementations must
// return early with the context error on cancellation.
type Pacer func(ctx context.Context, d time.Duration) error

// Sleep is the default pacer.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var fileSteps = []string{
	"🔍 Step 1: Processing uploaded files...",
	"🧠 Step 2: Analyzing file content and user query...",
	"📊 Step 3: Extracting relevant information...",
	"⚙️ Step 4: Correlating file data with request...",
	"✨ Step 5: Formulating comprehensive response...",
}

var plainSteps = []string{
	"🔍 Step 1: Analyzing user query...",
	"🧠 Step 2: Understanding context and intent...",
	"📊 Step 3: Referencing available context...",
	"⚙️ Step 4: Processing information...",
	"✨ Step 5: Formulating comprehensive response...",
}

// Narrator emits a fixed five-step narration, paced by delay.
type Narrator struct {
	delay time.Duration
	pacer Pacer
}

// New builds a narrator. A nil pacer falls back to Sleep.
func New(delay time.Duration, pacer Pacer) *Narrator {
	if pacer == nil {
		pacer = Sleep
	}
	return &Narrator{delay: delay, pacer: pacer}
}

// Steps returns the milestone strings for one request. The wording depends
// only on whether attachments were present.
func Steps(hasAttachments bool) []string {
	if hasAttachments {
		return fileSteps
	}
	return plainSteps
}

// Narrate emits each step through emit, pacing after every step. It stops on
// the first emit or pacing error.
func (n *Narrator) Narrate(ctx context.Context, hasAttachments bool, emit func(step string) error) error {
	for _, step := range Steps(hasAttachments) {
		if err := emit(step); err != nil {
			return err
		}
		if err := n.pacer(ctx, n.delay); err != nil {
			return err
		}
	}
	return nil
}
