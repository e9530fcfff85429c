package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"hk-explorer-be/internal/constant"
	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/internal/repository/specification"
	"hk-explorer-be/internal/repository/unitofwork"
	"hk-explorer-be/pkg/events"
	"hk-explorer-be/pkg/geo"
	"hk-explorer-be/pkg/guard"
	"hk-explorer-be/pkg/llm"
	"hk-explorer-be/pkg/metrics"
)

type IVerificationService interface {
	VerifyPhoto(ctx context.Context, req *dto.VerifyPhotoRequest) (*dto.VerifyPhotoResponse, error)
}

type VerificationConfig struct {
	ThresholdMeters float64
	MinConfidence   float64
	LockTTL         time.Duration
}

var verificationSchema = &llm.Schema{
	Name: "photo_verification",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verified":   map[string]any{"type": "boolean"},
			"confidence": map[string]any{"type": "number"},
			"reason":     map[string]any{"type": "string"},
			"funFact":    map[string]any{"type": "string"},
		},
		"required": []string{"verified", "confidence", "reason", "funFact"},
	},
}

type photoJudgment struct {
	Verified   *bool    `json:"verified" validate:"required"`
	Confidence *float64 `json:"confidence" validate:"required"`
	Reason     string   `json:"reason"`
	FunFact    string   `json:"funFact"`
}

var errRewardUserNotFound = errors.New("user not found")

type verificationService struct {
	uowFactory    unitofwork.RepositoryFactory
	vision        llm.LLMProvider
	guard         guard.Guard
	publisher     events.Publisher
	geofence      geo.Geofence
	minConfidence float64
	lockTTL       time.Duration
	logger        logger.ILogger
	metrics       *metrics.Metrics
}

func NewVerificationService(
	uowFactory unitofwork.RepositoryFactory,
	vision llm.LLMProvider,
	submissionGuard guard.Guard,
	publisher events.Publisher,
	cfg VerificationConfig,
	log logger.ILogger,
	m *metrics.Metrics,
) IVerificationService {
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = constant.MinVerificationConfidence
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 2 * time.Minute
	}
	if submissionGuard == nil {
		submissionGuard = guard.NewMemoryGuard()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &verificationService{
		uowFactory:    uowFactory,
		vision:        vision,
		guard:         submissionGuard,
		publisher:     publisher,
		geofence:      geo.NewGeofence(cfg.ThresholdMeters),
		minConfidence: cfg.MinConfidence,
		lockTTL:       cfg.LockTTL,
		logger:        log,
		metrics:       m,
	}
}

// VerifyPhoto runs lookup, geofence, content judgment and reward, stopping at
// the first step that rejects the submission.
func (s *verificationService) VerifyPhoto(ctx context.Context, req *dto.VerifyPhotoRequest) (*dto.VerifyPhotoResponse, error) {
	start := time.Now()

	challenge, err := s.uowFactory.NewUnitOfWork(ctx).ChallengeRepository().FindOne(ctx, specification.ByID{ID: req.ChallengeId})
	if err != nil {
		s.metrics.ObserveFlow("verify_photo", metrics.OutcomeError, start)
		return nil, serverutils.Upstream("verify photo lookup", err)
	}
	if challenge == nil {
		s.metrics.Verification("not_found")
		return &dto.VerifyPhotoResponse{
			Reason:            constant.ReasonChallengeNotFound,
			GpsDistanceMeters: -1,
		}, nil
	}

	target, ok := challenge.Coordinates()
	if !ok {
		s.metrics.Verification("no_location")
		return &dto.VerifyPhotoResponse{
			Reason:            constant.ReasonChallengeHasNoAddress,
			GpsDistanceMeters: -1,
		}, nil
	}

	distance, inside := s.geofence.Check(geo.Coordinate{Latitude: *req.UserLatitude, Longitude: *req.UserLongitude}, target)
	rounded := geo.RoundMeters(distance)
	if !inside {
		s.metrics.Verification("out_of_range")
		return &dto.VerifyPhotoResponse{
			Reason:            fmt.Sprintf(constant.ReasonOutsideGeofence, rounded, int(s.geofence.ThresholdMeters)),
			GpsDistanceMeters: rounded,
		}, nil
	}

	// From here on the position has been accepted.
	res := &dto.VerifyPhotoResponse{GpsVerified: true, GpsDistanceMeters: rounded}

	image, err := llm.DecodeBase64Image(req.ImageBase64)
	if err != nil {
		return nil, &serverutils.ValidationError{Fields: map[string]string{"imageBase64": "must be a base64 encoded image"}}
	}

	release, acquired, err := s.guard.Acquire(ctx, req.UserId+":"+req.ChallengeId, s.lockTTL)
	if err != nil {
		s.logger.Warn("VerificationService", "submission guard failed, continuing unguarded", map[string]interface{}{"error": err})
	} else if !acquired {
		s.metrics.Verification("in_flight")
		res.Reason = constant.ReasonVerificationInFlight
		return res, nil
	} else {
		defer release()
	}

	judgment, err := s.judge(ctx, challenge, target, image)
	if err != nil {
		s.metrics.ObserveFlow("verify_photo", metrics.OutcomeError, start)
		return nil, serverutils.Upstream("verify photo judgment", err)
	}

	res.Confidence = judgment.confidence
	res.Reason = judgment.reason
	res.FunFact = judgment.funFact
	res.Verified = judgment.verified && judgment.confidence >= s.minConfidence

	if !res.Verified {
		s.metrics.Verification("rejected")
		s.metrics.ObserveFlow("verify_photo", metrics.OutcomeOK, start)
		return res, nil
	}

	points, err := s.reward(ctx, req.UserId, challenge)
	if err != nil {
		// The judgment stands; the client sees no points.
		s.logger.Error("VerificationService", "reward write failed", map[string]interface{}{
			"user_id":      req.UserId,
			"challenge_id": req.ChallengeId,
			"error":        err,
		})
	}
	res.PointsAwarded = points

	if points > 0 {
		evt := events.New(events.ChallengeCompleted, map[string]interface{}{
			"userId":        req.UserId,
			"challengeId":   req.ChallengeId,
			"pointsAwarded": points,
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("VerificationService", "failed to publish completion event", map[string]interface{}{"error": err})
		}
	}

	s.metrics.Verification("verified")
	s.metrics.ObserveFlow("verify_photo", metrics.OutcomeOK, start)
	s.logger.Info("VerificationService", "challenge verified", map[string]interface{}{
		"user_id":        req.UserId,
		"challenge_id":   req.ChallengeId,
		"distance":       rounded,
		"confidence":     res.Confidence,
		"points_awarded": points,
	})
	return res, nil
}

type judgment struct {
	verified   bool
	confidence float64
	reason     string
	funFact    string
}

func (s *verificationService) judge(ctx context.Context, challenge *entity.Challenge, target geo.Coordinate, image llm.Image) (judgment, error) {
	challengeType := challenge.Type
	if challengeType == "" {
		challengeType = "photo"
	}
	prompt := fmt.Sprintf(constant.PhotoVerificationPrompt,
		challenge.Title, challenge.Description, challengeType, target.Latitude, target.Longitude)

	resp, err := s.vision.Complete(ctx, &llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt, Images: []llm.Image{image}}},
		Schema:   verificationSchema,
	}, llm.WithTemperature(0.2))
	if err != nil {
		return judgment{}, err
	}

	var raw photoJudgment
	if err := llm.DecodeJSON(resp.Text, &raw); err != nil {
		s.logger.Warn("VerificationService", "unparseable judgment", map[string]interface{}{"error": err})
		return judgment{reason: constant.ReasonUnparseableJudgment}, nil
	}

	return judgment{
		verified:   *raw.Verified,
		confidence: clamp01(*raw.Confidence),
		reason:     strings.TrimSpace(raw.Reason),
		funFact:    strings.TrimSpace(raw.FunFact),
	}, nil
}

// reward credits the challenge to the user under a row lock. It returns 0
// points, without error, when the challenge was already completed.
func (s *verificationService) reward(ctx context.Context, userId string, challenge *entity.Challenge) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByUID{UID: userId}, specification.ForUpdate{})
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, errRewardUserNotFound
	}

	points := challenge.RewardPoints()
	if !user.Complete(challenge.Id, points) {
		s.logger.Info("VerificationService", "challenge already completed, no points", map[string]interface{}{
			"user_id":      userId,
			"challenge_id": challenge.Id,
		})
		return 0, nil
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}
	return points, nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
