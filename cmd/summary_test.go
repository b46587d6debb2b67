package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lockstep-sim/lockstep-sim/sim/trace"
)

func TestPrintTraceSummary_ClientsInOrder(t *testing.T) {
	// GIVEN a summary with stalls for clients 1 and 0
	summary := &trace.TraceSummary{
		TotalEvents:     12,
		StallCount:      3,
		ResumeCount:     3,
		StallsByClient:  map[int]int{1: 2, 0: 1},
		ResumesByClient: map[int]int{1: 2, 0: 1},
		LastClock:       400,
		MonotonicTime:   true,
	}

	// WHEN printed
	var buf bytes.Buffer
	printTraceSummary(&buf, summary)

	// THEN client 0 precedes client 1 and totals appear
	out := buf.String()
	assert.Contains(t, out, "=== Trace Summary ===")
	assert.Contains(t, out, "Stalls / Resumes     : 3 / 3")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("client 0")), bytes.Index(buf.Bytes(), []byte("client 1")))
}
