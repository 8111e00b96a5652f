package service

import (
	"context"
	"sync"

	"stock-news-briefer/internal/briefer/config"
	"stock-news-briefer/internal/briefer/dto"
	"stock-news-briefer/pkg/logger"
	"stock-news-briefer/pkg/telegram"
	"stock-news-briefer/pkg/utils"
)

// WatchService generates briefs for the configured symbols and delivers
// them via Telegram.
type WatchService interface {
	Run(ctx context.Context)
}

type watchService struct {
	cfg              *config.Config
	logger           *logger.Logger
	brieferService   BrieferService
	telegramNotifier telegram.Notifier
}

// NewWatchService creates a new WatchService.
func NewWatchService(
	cfg *config.Config,
	log *logger.Logger,
	brieferService BrieferService,
	telegramNotifier telegram.Notifier,
) WatchService {
	return &watchService{
		cfg:              cfg,
		logger:           log,
		brieferService:   brieferService,
		telegramNotifier: telegramNotifier,
	}
}

// Run generates one brief per configured symbol and pushes them to the
// Telegram chat. Failed symbols are logged and skipped.
func (s *watchService) Run(ctx context.Context) {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		briefs = make([]*dto.Brief, len(s.cfg.Watch.Symbols))
	)

	for i, symbol := range s.cfg.Watch.Symbols {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		idx, sym := i, symbol
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			s.logger.Info("Generating scheduled brief", logger.StringField("symbol", sym))

			brief, err := s.brieferService.GenerateBrief(ctx, sym)
			if err != nil {
				s.logger.Error("Failed to generate scheduled brief", logger.ErrorField(err), logger.StringField("symbol", sym))
				return
			}

			mu.Lock()
			briefs[idx] = brief
			mu.Unlock()
		})
	}

	wg.Wait()

	generated := make([]*dto.Brief, 0, len(briefs))
	for _, brief := range briefs {
		if brief != nil {
			generated = append(generated, brief)
		}
	}

	for _, message := range telegram.FormatBriefsForTelegram(generated) {
		if err := s.telegramNotifier.SendMessage(message); err != nil {
			s.logger.Error("Failed to send Telegram message", logger.ErrorField(err))
		}
	}
}
