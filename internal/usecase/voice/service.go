// Package voice orchestrates the full pipeline from uploaded audio to a
// streamed reply: transcription, crisis screening, language resolution,
// normalization, signal extraction, retrieval, reranking, and
// generation.
package voice

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pavneets956-design/Align/internal/domain"
	"github.com/pavneets956-design/Align/internal/logger"
	"github.com/pavneets956-design/Align/internal/usecase/rank"
	"github.com/pavneets956-design/Align/internal/usecase/safety"
)

// DefaultStageTimeout bounds each provider call made before streaming
// starts. The reply stream itself is bounded only by the request
// context.
const DefaultStageTimeout = 30 * time.Second

// Request carries one voice interaction.
type Request struct {
	Audio      io.Reader
	Filename   string
	TargetLang string // optional explicit reply language
}

// Reply is a resolved reply language plus the delta stream. Deltas
// arrive on Events until it is closed.
type Reply struct {
	TargetLang domain.Lang
	Events     <-chan string
}

// Service wires the pipeline stages together.
type Service struct {
	transcriber  domain.Transcriber
	normalizer   Normalizer
	signals      SignalExtractor
	retriever    Retriever
	crisis       CrisisGate
	streamer     ReplyStreamer
	weights      rank.Weights
	stageTimeout time.Duration
}

// New creates a Service. stageTimeout <= 0 uses DefaultStageTimeout.
func New(
	transcriber domain.Transcriber,
	normalizer Normalizer,
	signals SignalExtractor,
	retriever Retriever,
	crisis CrisisGate,
	streamer ReplyStreamer,
	weights rank.Weights,
	stageTimeout time.Duration,
) *Service {
	if stageTimeout <= 0 {
		stageTimeout = DefaultStageTimeout
	}
	return &Service{
		transcriber:  transcriber,
		normalizer:   normalizer,
		signals:      signals,
		retriever:    retriever,
		crisis:       crisis,
		streamer:     streamer,
		weights:      weights,
		stageTimeout: stageTimeout,
	}
}

// Respond runs the pipeline for one request. Crisis input short-circuits
// retrieval and yields a single supportive delta. Errors are sentinel
// wrapped for transport-layer status mapping.
func (s *Service) Respond(ctx context.Context, req Request) (*Reply, error) {
	if req.Audio == nil {
		return nil, domain.ErrAudioRequired
	}

	log := logger.FromContext(ctx)

	transcript, err := s.transcribe(ctx, req)
	if err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(transcript.Text)
	if raw == "" {
		return nil, domain.ErrEmptyTranscript
	}

	spoken := domain.ResolveSpoken(transcript.Language, raw)
	target := domain.ResolveTarget(req.TargetLang, spoken)
	log.Info("transcript resolved",
		zap.String("spoken", string(spoken)),
		zap.String("target", string(target)),
		zap.Int("transcript_len", len(raw)))

	if safety.IsCrisis(raw) {
		return s.crisisReply(ctx, raw, target), nil
	}

	english := s.normalize(ctx, raw, spoken)

	signals, passages := s.gather(ctx, english)

	ranked := rank.Rank(passages, signals, s.weights)
	log.Debug("passages ranked",
		zap.Int("candidates", len(passages)),
		zap.Int("selected", len(ranked)))

	return &Reply{
		TargetLang: target,
		Events:     s.streamer.Stream(ctx, ranked, english, target),
	}, nil
}

func (s *Service) transcribe(ctx context.Context, req Request) (domain.Transcript, error) {
	tctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	transcript, err := s.transcriber.Transcribe(tctx, req.Audio, req.Filename)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("transcribe audio: %w", err)
	}
	return transcript, nil
}

func (s *Service) crisisReply(ctx context.Context, raw string, target domain.Lang) *Reply {
	cctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	sentence := s.crisis.Reply(cctx, raw, target)
	events := make(chan string, 1)
	events <- sentence
	close(events)
	return &Reply{TargetLang: target, Events: events}
}

func (s *Service) normalize(ctx context.Context, raw string, spoken domain.Lang) string {
	nctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()
	return s.normalizer.Normalize(nctx, raw, spoken)
}

// gather runs signal extraction and retrieval concurrently. Both stages
// degrade to empty results on their own, so gather never fails.
func (s *Service) gather(ctx context.Context, english string) (domain.Signals, []domain.Passage) {
	gctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	var (
		signals  domain.Signals
		passages []domain.Passage
	)
	g, gctx := errgroup.WithContext(gctx)
	g.Go(func() error {
		signals = s.signals.Extract(gctx, english)
		return nil
	})
	g.Go(func() error {
		passages = s.retriever.Retrieve(gctx, english)
		return nil
	})
	_ = g.Wait()

	return signals, passages
}
