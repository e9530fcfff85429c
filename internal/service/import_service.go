package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hk-explorer-be/internal/constant"
	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/repository/unitofwork"
	"hk-explorer-be/pkg/events"
	"hk-explorer-be/pkg/geo"
	"hk-explorer-be/pkg/metrics"

	"github.com/google/uuid"
)

type IImportService interface {
	// Import stores discovered challenges, skipping titles that already exist.
	Import(ctx context.Context, challenges []dto.DiscoveredChallenge) (*dto.ImportChallengesResponse, error)
	// Enqueue queues an import and returns immediately.
	Enqueue(ctx context.Context, req *dto.ImportChallengesRequest) (*dto.ImportAcceptedResponse, error)
}

type importService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   events.Publisher
	logger           logger.ILogger
	metrics          *metrics.Metrics
	now              func() time.Time
}

func NewImportService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	log logger.ILogger,
	m *metrics.Metrics,
) IImportService {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &importService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
		metrics:          m,
		now:              time.Now,
	}
}

func (s *importService) Enqueue(ctx context.Context, req *dto.ImportChallengesRequest) (*dto.ImportAcceptedResponse, error) {
	msg := dto.PublishImportMessage{
		JobId:      uuid.NewString(),
		Challenges: req.Challenges,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, fmt.Errorf("enqueue import: %w", err)
	}

	s.logger.Info("ImportService", "import queued", map[string]interface{}{
		"job_id": msg.JobId,
		"count":  len(req.Challenges),
	})
	return &dto.ImportAcceptedResponse{JobId: msg.JobId, Count: len(req.Challenges)}, nil
}

func (s *importService) Import(ctx context.Context, challenges []dto.DiscoveredChallenge) (*dto.ImportChallengesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.ChallengeRepository().ExistingTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing titles: %w", err)
	}

	res := &dto.ImportChallengesResponse{ChallengeIds: []string{}}
	for _, d := range challenges {
		key := strings.ToLower(strings.TrimSpace(d.Title))
		if key == "" {
			res.Skipped++
			continue
		}
		if _, dup := existing[key]; dup {
			res.Skipped++
			continue
		}

		c, ok := s.toChallenge(d)
		if !ok {
			s.logger.Warn("ImportService", "skipping challenge without a usable location", map[string]interface{}{"title": d.Title})
			res.Skipped++
			continue
		}
		if err := uow.ChallengeRepository().Create(ctx, c); err != nil {
			return nil, fmt.Errorf("create challenge %q: %w", d.Title, err)
		}
		existing[key] = struct{}{}
		res.ChallengeIds = append(res.ChallengeIds, c.Id)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	res.Imported = len(res.ChallengeIds)
	s.metrics.Imported(res.Imported, res.Skipped)

	if res.Imported > 0 {
		evt := events.New(events.ChallengesImported, map[string]interface{}{
			"count":        res.Imported,
			"challengeIds": res.ChallengeIds,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ImportService", "failed to publish import event", map[string]interface{}{"error": err})
		}
	}

	s.logger.Info("ImportService", "challenges imported", map[string]interface{}{
		"imported": res.Imported,
		"skipped":  res.Skipped,
	})
	return res, nil
}

// toChallenge maps a discovered record. Location arrives as [longitude, latitude].
func (s *importService) toChallenge(d dto.DiscoveredChallenge) (*entity.Challenge, bool) {
	if len(d.Location) != 2 {
		return nil, false
	}
	point := geo.Coordinate{Latitude: d.Location[1], Longitude: d.Location[0]}
	if point.Latitude < -90 || point.Latitude > 90 || point.Longitude < -180 || point.Longitude > 180 {
		return nil, false
	}

	challengeType := strings.ToLower(strings.TrimSpace(d.Type))
	if mapped, ok := constant.ImportTypeMap[challengeType]; ok {
		challengeType = mapped
	}

	difficulty := strings.ToLower(strings.TrimSpace(d.Difficulty))
	if difficulty == "" {
		difficulty = "medium"
	}
	score, ok := constant.ImportScoreByDifficulty[difficulty]
	if !ok {
		score = constant.ImportScoreByDifficulty["hard"]
	}

	picURL := ""
	if d.PhotoURL != nil {
		picURL = *d.PhotoURL
	}

	now := s.now().UTC()
	return &entity.Challenge{
		Title:            strings.TrimSpace(d.Title),
		Description:      d.Description,
		Type:             challengeType,
		Difficulty:       difficulty,
		Score:            &score,
		ExpectedDuration: entity.FormatDuration(d.Duration),
		Location:         &point,
		JoinedPeople:     []string{},
		PicURL:           picURL,
		Source:           constant.ImportSourceBrowserAgent,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, true
}
