package aligner

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/kbukum/lipsync/errors"
)

func TestProcessBatch(t *testing.T) {
	tp := &fakeTranscriber{name: "whisper", delay: 20 * time.Millisecond}
	svc := newTestService(Config{Concurrency: 2}, tp, &fakeAligner{name: "mfa", units: timedUnits()})

	jobs := []Job{
		{ID: "a", AudioPath: "a.wav"},
		{AudioPath: "fail.wav"},
		{ID: "c", AudioPath: "c.wav"},
		{ID: "d", AudioPath: "d.wav"},
		{ID: "e", AudioPath: "e.wav"},
	}
	items := svc.ProcessBatch(context.Background(), jobs)

	if len(items) != len(jobs) {
		t.Fatalf("items = %d, want %d", len(items), len(jobs))
	}
	for i, item := range items {
		if item.Job.AudioPath != jobs[i].AudioPath {
			t.Errorf("item %d is %s, want %s", i, item.Job.AudioPath, jobs[i].AudioPath)
		}
		if item.Job.ID == "" {
			t.Errorf("item %d has no job id", i)
		}
		if i == 1 {
			if !apperrors.IsCode(item.Err, apperrors.ErrCodeExternalService) {
				t.Errorf("item 1 err = %v", item.Err)
			}
			continue
		}
		if item.Err != nil || item.Result == nil {
			t.Errorf("item %d = %v, %v", i, item.Result, item.Err)
			continue
		}
		if item.Result.JobID != item.Job.ID {
			t.Errorf("item %d result id %q, job id %q", i, item.Result.JobID, item.Job.ID)
		}
	}
	if peak := tp.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestProcessBatch_Canceled(t *testing.T) {
	svc := newTestService(Config{}, &fakeTranscriber{name: "whisper"}, &fakeAligner{name: "mfa"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := svc.ProcessBatch(ctx, []Job{{AudioPath: "a.wav"}, {AudioPath: "b.wav"}})
	for i, item := range items {
		if item.Err != context.Canceled {
			t.Errorf("item %d err = %v, want context.Canceled", i, item.Err)
		}
	}
}
