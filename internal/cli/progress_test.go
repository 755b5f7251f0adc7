package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestRenderProgressBar(t *testing.T) {
	out := RenderProgressBar(500, 1000, 10)
	if !strings.Contains(out, "500/1,000") {
		t.Fatalf("progress bar = %q", out)
	}
	if strings.Count(out, "█") != 5 {
		t.Fatalf("filled cells = %d, want 5 in %q", strings.Count(out, "█"), out)
	}
	if RenderProgressBar(1, 0, 10) != "" {
		t.Fatal("zero total should render nothing")
	}
	if strings.Count(RenderProgressBar(20, 10, 4), "█") != 4 {
		t.Fatal("overflow should render a full bar")
	}
}

func TestProgressLine_IgnoresStaleCounts(t *testing.T) {
	var buf bytes.Buffer
	p := &ProgressLine{W: &buf, Label: "Simulating", Width: 10}

	p.Update(100, 100)
	p.Update(42, 100)
	p.Update(99, 100)

	frames := strings.Split(buf.String(), "\r")
	last := frames[len(frames)-1]
	if !strings.Contains(last, "100/100") {
		t.Fatalf("last frame = %q, want the completed count", last)
	}
	if strings.Count(buf.String(), "\r") != 1 {
		t.Fatalf("frames drawn = %d, want 1", strings.Count(buf.String(), "\r"))
	}
}

func TestProgressLine_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	p := &ProgressLine{W: &buf, Label: "Simulating"}

	const total = 1000
	var wg sync.WaitGroup
	next := make(chan int, total)
	for i := 1; i <= total; i++ {
		next <- i
	}
	close(next)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range next {
				p.Update(n, total)
			}
		}()
	}
	wg.Wait()

	frames := strings.Split(buf.String(), "\r")
	if !strings.Contains(frames[len(frames)-1], "1,000/1,000") {
		t.Fatalf("last frame = %q, want 1,000/1,000", frames[len(frames)-1])
	}
}

func TestProgressLine_Clear(t *testing.T) {
	var buf bytes.Buffer
	p := &ProgressLine{W: &buf, Label: "Simulating"}
	p.Clear()
	if buf.Len() != 0 {
		t.Fatalf("Clear before any draw wrote %q", buf.String())
	}

	p.Update(1, 1)
	buf.Reset()
	p.Clear()
	out := buf.String()
	if !strings.HasPrefix(out, "\r") || !strings.HasSuffix(out, "\r") || strings.TrimSpace(out) != "" {
		t.Fatalf("Clear wrote %q, want a blanked line", out)
	}
}
