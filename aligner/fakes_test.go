package aligner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/lipsync/alignment"
	"github.com/kbukum/lipsync/logger"
	"github.com/kbukum/lipsync/transcription"
	"github.com/kbukum/lipsync/util"
)

type fakeTranscriber struct {
	name  string
	delay time.Duration

	mu       sync.Mutex
	requests []transcription.Request

	inflight, peak atomic.Int32
}

func (f *fakeTranscriber) Name() string                     { return f.name }
func (f *fakeTranscriber) IsAvailable(context.Context) bool { return true }

func (f *fakeTranscriber) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if req.AudioPath == "fail.wav" {
		return nil, errors.New("sidecar returned 500")
	}
	return &transcription.Response{
		Segments: []transcription.Segment{
			{Start: 0, End: 2, Text: "hello world"},
			{Start: 2, End: 4, Text: "bye"},
		},
		Duration: 4,
		Language: "en",
	}, nil
}

type fakeAligner struct {
	name  string
	units []alignment.Unit

	mu       sync.Mutex
	requests []alignment.Request
}

func (f *fakeAligner) Name() string                     { return f.name }
func (f *fakeAligner) IsAvailable(context.Context) bool { return true }

func (f *fakeAligner) Align(_ context.Context, req alignment.Request) (*alignment.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return &alignment.Response{Language: req.Language, Units: f.units}, nil
}

// fakeCombined serves both stages under one name.
type fakeCombined struct {
	fakeTranscriber
	fakeAligner
	combinedCalls atomic.Int32
}

func (f *fakeCombined) Name() string                     { return "combined" }
func (f *fakeCombined) IsAvailable(context.Context) bool { return true }

func (f *fakeCombined) TranscribeAndAlign(ctx context.Context, req transcription.Request, _ bool) (*transcription.Response, *alignment.Response, error) {
	f.combinedCalls.Add(1)
	return &transcription.Response{
			Segments: []transcription.Segment{{Start: 0, End: 1, Text: "hi"}},
			Duration: 1,
			Language: "de",
		}, &alignment.Response{
			Units: []alignment.Unit{{Text: "hi", Start: util.Ptr(0.1), End: util.Ptr(0.4), Score: util.Ptr(0.9)}},
		}, nil
}

func timedUnits() []alignment.Unit {
	return []alignment.Unit{
		{Text: "hello", Start: util.Ptr(0.1), End: util.Ptr(0.5), Score: util.Ptr(0.9)},
		{Text: "world", Start: util.Ptr(0.6), End: util.Ptr(1.2), Score: util.Ptr(0.8)},
		{Text: "bye", Start: util.Ptr(2.5), End: util.Ptr(3.0), Score: util.Ptr(0.7)},
	}
}

func newTestService(cfg Config, tp transcription.Provider, ap alignment.Provider) *Service {
	transcribers := transcription.NewManager()
	transcribers.Add(tp.Name(), tp)
	aligners := alignment.NewManager(nil)
	aligners.Add(ap.Name(), ap)
	return NewService(cfg, transcribers, aligners, WithLogger(logger.Nop()))
}
