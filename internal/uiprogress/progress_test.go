package uiprogress

import (
	"testing"

	"hdlower/internal/lowpipeline"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		name   string
		stage  lowpipeline.Stage
		status lowpipeline.Status
		want   string
	}{
		{"queued", lowpipeline.StageMangle, lowpipeline.StatusQueued, "queued"},
		{"working mangle", lowpipeline.StageMangle, lowpipeline.StatusWorking, "mangling"},
		{"working lower", lowpipeline.StageLower, lowpipeline.StatusWorking, "lowering"},
		{"working finalize", lowpipeline.StageFinalize, lowpipeline.StatusWorking, "finalizing"},
		{"done", lowpipeline.StageFinalize, lowpipeline.StatusDone, "done"},
		{"error", lowpipeline.StageLower, lowpipeline.StatusError, "error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusLabel(tc.stage, tc.status); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProgressFromStageMonotonic(t *testing.T) {
	mangle := progressFromStage(lowpipeline.StageMangle)
	lower := progressFromStage(lowpipeline.StageLower)
	finalize := progressFromStage(lowpipeline.StageFinalize)
	if !(mangle < lower && lower < finalize) {
		t.Fatalf("expected strictly increasing progress, got %v, %v, %v", mangle, lower, finalize)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Fatalf("got %q, want unchanged string", got)
	}
	got := truncate("a-very-long-function-name", 10)
	if len(got) > 10 {
		t.Fatalf("got %q (%d chars), want at most 10", got, len(got))
	}
}
