package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lodgr/internal/data/entity"
	"lodgr/internal/data/repository"
	"lodgr/internal/dto/request"
	"lodgr/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService works on reviews nested under a property. Every call is
// scoped to the property in the path.
type ReviewService interface {
	// Public endpoints
	ListReviews(ctx context.Context, propertyID string, req *request.ReviewListRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, propertyID, reviewID string) (*response.ReviewResponse, error)

	// Reviewer only
	CreateReview(ctx context.Context, propertyID string, userID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, propertyID, reviewID string, userID uuid.UUID, req *request.UpdateReviewRequest, full bool) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, propertyID, reviewID string, userID uuid.UUID) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) ListReviews(ctx context.Context, propertyID string, req *request.ReviewListRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	property, err := s.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	filter := entity.ReviewFilter{
		PropertyID: property.ID,
		Rating:     req.Rating,
		Search:     req.Search,
	}
	if req.UserID != nil {
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, fieldError("user", "Must be a valid UUID")
		}
		filter.UserID = &userID
	}

	reviews, err := s.repo.Review.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	total, err := s.repo.Review.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	items := make([]response.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, response.ReviewToResponse(review))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *reviewService) GetReview(ctx context.Context, propertyID, reviewID string) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, propertyID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) CreateReview(ctx context.Context, propertyID string, userID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	property, err := s.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PropertyID: property.ID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("property_id", property.ID.String()),
		zap.Int("rating", review.Rating))

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, propertyID, reviewID string, userID uuid.UUID, req *request.UpdateReviewRequest, full bool) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if full && !req.Complete() {
		return nil, fieldError("body", "PUT requires rating and comment")
	}

	review, err := s.findOwnedReview(ctx, propertyID, reviewID, userID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = req.Comment
	}
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, propertyID, reviewID string, userID uuid.UUID) error {
	review, err := s.findOwnedReview(ctx, propertyID, reviewID, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	s.log.Info("Review deleted", zap.String("review_id", reviewID))
	return nil
}

func (s *reviewService) findProperty(ctx context.Context, propertyID string) (*entity.Property, error) {
	id, err := parseID("property", propertyID)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", propertyID, err)
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}
	return property, nil
}

func (s *reviewService) findReview(ctx context.Context, propertyID, reviewID string) (*entity.Review, error) {
	pid, err := parseID("property", propertyID)
	if err != nil {
		return nil, err
	}
	rid, err := parseID("review", reviewID)
	if err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, pid, rid)
	if err != nil {
		return nil, fmt.Errorf("find review %s: %w", reviewID, err)
	}
	if review == nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
	}
	return review, nil
}

func (s *reviewService) findOwnedReview(ctx context.Context, propertyID, reviewID string, userID uuid.UUID) (*entity.Review, error) {
	review, err := s.findReview(ctx, propertyID, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, fmt.Errorf("review %s belongs to another user: %w", reviewID, ErrForbidden)
	}
	return review, nil
}
