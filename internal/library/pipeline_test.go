package library

import (
	"fmt"
	"testing"
	"time"
)

func makeTestFiles(t *testing.T, n int) []FileEntry {
	t.Helper()
	dir := t.TempDir()
	files := make([]FileEntry, n)
	for i := range files {
		name := fmt.Sprintf("doc%02d.pdf", i)
		files[i] = FileEntry{Name: name, Path: writeTestPDF(t, dir, name)}
	}
	return files
}

func collectEvents(t *testing.T, run *Run) (ready []Event, done Event) {
	t.Helper()
	sawDone := false
	for ev := range run.Events() {
		switch ev.Kind {
		case EventReady:
			if sawDone {
				t.Fatal("ready event after done")
			}
			ready = append(ready, ev)
		case EventDone:
			sawDone = true
			done = ev
		}
	}
	if !sawDone {
		t.Fatal("run ended without a done event")
	}
	return ready, done
}

func TestRunEmitsInOrder(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			files := makeTestFiles(t, 8)
			gen := NewGenerator(NewCache(t.TempDir(), true), newFakeOpener(2))
			p := NewPipeline(gen, workers)

			run := p.Start(files, 0, 50, 70)
			ready, done := collectEvents(t, run)

			if len(ready) != len(files) {
				t.Fatalf("got %d ready events, want %d", len(ready), len(files))
			}

			lastProgress := 0
			for i, ev := range ready {
				if ev.Path != files[i].Path {
					t.Errorf("ready[%d].Path = %q, want %q", i, ev.Path, files[i].Path)
				}
				if ev.Image == nil {
					t.Errorf("ready[%d] has no image", i)
				}
				if ev.Failed {
					t.Errorf("ready[%d] unexpectedly failed", i)
				}
				if ev.Progress < lastProgress {
					t.Errorf("progress went backwards: %d after %d", ev.Progress, lastProgress)
				}
				lastProgress = ev.Progress
			}

			if ready[len(ready)-1].Progress != 100 {
				t.Errorf("final ready progress = %d, want 100", ready[len(ready)-1].Progress)
			}
			if done.Outcome != RunCompleted {
				t.Errorf("outcome = %q, want %q", done.Outcome, RunCompleted)
			}
			if done.Progress != 100 {
				t.Errorf("done progress = %d, want 100", done.Progress)
			}
		})
	}
}

func TestRunMarksFailedFiles(t *testing.T) {
	files := makeTestFiles(t, 3)
	opener := newFakeOpener(2)
	opener.failPaths[files[1].Path] = true

	gen := NewGenerator(NewCache(t.TempDir(), true), opener)
	run := NewPipeline(gen, 1).Start(files, 0, 50, 70)
	ready, done := collectEvents(t, run)

	if len(ready) != 3 {
		t.Fatalf("got %d ready events, want 3", len(ready))
	}
	if !ready[1].Failed {
		t.Error("unrenderable file should be marked failed")
	}
	if ready[0].Failed || ready[2].Failed {
		t.Error("healthy files should not be marked failed")
	}
	if done.Outcome != RunCompleted {
		t.Errorf("outcome = %q, want %q", done.Outcome, RunCompleted)
	}
}

func TestRunMixedFolderWithPagePastEnd(t *testing.T) {
	dir := t.TempDir()
	files := []FileEntry{
		{Name: "a.pdf", Path: writeTestPDF(t, dir, "a.pdf")},
		{Name: "b.pdf", Path: writeTestPDF(t, dir, "b.pdf")},
	}

	opener := newFakeOpener(3)
	opener.failPaths[files[1].Path] = true

	gen := NewGenerator(NewCache(t.TempDir(), true), opener)
	run := NewPipeline(gen, 1).Start(files, 5, 50, 70)
	ready, done := collectEvents(t, run)

	if len(ready) != 2 {
		t.Fatalf("got %d ready events, want 2", len(ready))
	}
	if ready[0].Failed {
		t.Error("a.pdf should render despite the out-of-range page")
	}
	if !ready[1].Failed {
		t.Error("b.pdf should fall back to a placeholder")
	}
	if done.Outcome != RunCompleted || done.Progress != 100 {
		t.Errorf("done = %+v, want completed at 100", done)
	}

	// The out-of-range request lands on the last page of a.pdf.
	opener.mu.Lock()
	rendered := opener.docs[0].renderedPage
	opener.mu.Unlock()
	if rendered != 2 {
		t.Errorf("a.pdf rendered page %d, want 2", rendered)
	}
}

func TestRunEmptyList(t *testing.T) {
	gen := NewGenerator(NewCache(t.TempDir(), true), newFakeOpener(1))
	run := NewPipeline(gen, 2).Start(nil, 0, 50, 70)

	ready, done := collectEvents(t, run)
	if len(ready) != 0 {
		t.Errorf("got %d ready events, want 0", len(ready))
	}
	if done.Outcome != RunCompleted || done.Progress != 100 {
		t.Errorf("done = %+v, want completed at 100", done)
	}
}

func TestRunCancel(t *testing.T) {
	files := makeTestFiles(t, 20)
	opener := newFakeOpener(1)
	opener.renderDelay = 10 * time.Millisecond

	// Disabled cache so every file actually renders.
	gen := NewGenerator(NewCache(t.TempDir(), false), opener)
	p := NewPipeline(gen, 1)

	run := p.Start(files, 0, 50, 70)

	var ready []Event
	for ev := range run.Events() {
		if ev.Kind == EventReady {
			ready = append(ready, ev)
			if len(ready) == 3 {
				run.Cancel()
			}
			continue
		}

		if ev.Outcome != RunCancelled {
			t.Errorf("outcome = %q, want %q", ev.Outcome, RunCancelled)
		}
		if len(ready) >= len(files) {
			t.Errorf("cancelled run emitted all %d files", len(files))
		}
		wantProgress := len(ready) * 100 / len(files)
		if ev.Progress != wantProgress {
			t.Errorf("done progress = %d, want %d", ev.Progress, wantProgress)
		}
	}

	// Emitted prefix stays in order.
	for i, ev := range ready {
		if ev.Path != files[i].Path {
			t.Errorf("ready[%d].Path = %q, want %q", i, ev.Path, files[i].Path)
		}
	}
}

func TestStartCancelsPreviousRun(t *testing.T) {
	files := makeTestFiles(t, 10)
	opener := newFakeOpener(1)
	opener.renderDelay = 10 * time.Millisecond

	gen := NewGenerator(NewCache(t.TempDir(), false), opener)
	p := NewPipeline(gen, 2)

	first := p.Start(files, 0, 50, 70)
	second := p.Start(files[:4], 0, 50, 70)

	// The first run must already be fully drained: Start waits for it.
	_, firstDone := collectEvents(t, first)
	if firstDone.Outcome != RunCancelled && firstDone.Outcome != RunCompleted {
		t.Errorf("unexpected first outcome %q", firstDone.Outcome)
	}

	ready, done := collectEvents(t, second)
	if len(ready) != 4 {
		t.Errorf("second run emitted %d files, want 4", len(ready))
	}
	if done.Outcome != RunCompleted {
		t.Errorf("second outcome = %q, want %q", done.Outcome, RunCompleted)
	}
}

func TestPipelineStopAndActive(t *testing.T) {
	files := makeTestFiles(t, 10)
	opener := newFakeOpener(1)
	opener.renderDelay = 20 * time.Millisecond

	gen := NewGenerator(NewCache(t.TempDir(), false), opener)
	p := NewPipeline(gen, 1)

	if p.Active() {
		t.Error("new pipeline should be idle")
	}

	run := p.Start(files, 0, 50, 70)
	if !p.Active() {
		t.Error("pipeline should be active after Start")
	}

	p.Stop()
	if p.Active() {
		t.Error("pipeline should be idle after Stop")
	}

	// The run's channel still drains to a cancelled done event.
	_, done := collectEvents(t, run)
	if done.Outcome != RunCancelled {
		t.Errorf("outcome = %q, want %q", done.Outcome, RunCancelled)
	}
}
