package service

import (
	"context"
	"time"

	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuizStatusScheduler drives quiz status transitions off the clock: draft
// quizzes whose window has opened become published, quizzes past their
// window become completed. It is the only writer of those transitions, so
// handlers can trust Quiz.Status without re-deriving it.
type QuizStatusScheduler struct {
	quizRepo repository.QuizRepository
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewQuizStatusScheduler(quizRepo repository.QuizRepository) *QuizStatusScheduler {
	return &QuizStatusScheduler{
		quizRepo: quizRepo,
		interval: time.Minute,
	}
}

func (s *QuizStatusScheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
	log.Info().Dur("interval", s.interval).Msg("Quiz status scheduler started")
}

func (s *QuizStatusScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	log.Info().Msg("Quiz status scheduler stopped")
}

func (s *QuizStatusScheduler) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// Sweep runs both bulk transitions once. Errors are logged and swallowed so a
// transient database failure only delays transitions until the next tick.
func (s *QuizStatusScheduler) Sweep(now time.Time) {
	if n, err := s.quizRepo.SweepPublish(now); err != nil {
		log.Error().Err(err).Msg("Quiz sweep: publish failed")
	} else if n > 0 {
		log.Info().Int64("count", n).Msg("Quizzes moved to published")
	}

	if n, err := s.quizRepo.SweepComplete(now); err != nil {
		log.Error().Err(err).Msg("Quiz sweep: complete failed")
	} else if n > 0 {
		log.Info().Int64("count", n).Msg("Quizzes moved to completed")
	}
}
