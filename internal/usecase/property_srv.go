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

type PropertyService interface {
	// Public
	ListProperties(ctx context.Context, req *request.PropertyListRequest) (*response.PaginatedResponse[response.PropertyResponse], error)
	GetProperty(ctx context.Context, propertyID string) (*response.PropertyResponse, error)

	// Host only
	CreateProperty(ctx context.Context, hostID uuid.UUID, req *request.CreatePropertyRequest) (*response.PropertyResponse, error)
	UpdateProperty(ctx context.Context, propertyID string, hostID uuid.UUID, req *request.UpdatePropertyRequest, full bool) (*response.PropertyResponse, error)
	DeleteProperty(ctx context.Context, propertyID string, hostID uuid.UUID) error
}

type propertyService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPropertyService(repo *repository.Repository, log *zap.Logger) PropertyService {
	return &propertyService{
		repo: repo,
		log:  log.With(zap.String("service", "property")),
	}
}

func (s *propertyService) ListProperties(ctx context.Context, req *request.PropertyListRequest) (*response.PaginatedResponse[response.PropertyResponse], error) {
	filter := entity.PropertyFilter{
		Available: req.Available,
		Location:  req.Location,
		Search:    req.Search,
	}

	properties, err := s.repo.Property.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	total, err := s.repo.Property.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}

	items := make([]response.PropertyResponse, 0, len(properties))
	for _, property := range properties {
		items = append(items, response.PropertyToResponse(property))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *propertyService) GetProperty(ctx context.Context, propertyID string) (*response.PropertyResponse, error) {
	property, err := s.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	resp := response.PropertyToResponse(property)
	return &resp, nil
}

func (s *propertyService) CreateProperty(ctx context.Context, hostID uuid.UUID, req *request.CreatePropertyRequest) (*response.PropertyResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create property validation failed", zap.Error(err))
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	now := time.Now()
	property := &entity.Property{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HostID:      hostID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Available:   available,
	}

	if err := s.repo.Property.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	s.log.Info("Property created",
		zap.String("property_id", property.ID.String()),
		zap.String("host_id", hostID.String()))

	resp := response.PropertyToResponse(property)
	return &resp, nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, propertyID string, hostID uuid.UUID, req *request.UpdatePropertyRequest, full bool) (*response.PropertyResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if full && !req.Complete() {
		return nil, fieldError("body", "PUT requires name, description, location, price and available")
	}

	property, err := s.findOwnedProperty(ctx, propertyID, hostID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Location != nil {
		property.Location = *req.Location
	}
	if req.Price != nil {
		property.Price = *req.Price
	}
	if req.Available != nil {
		property.Available = *req.Available
	}
	property.UpdatedAt = time.Now()

	if err := s.repo.Property.Update(ctx, property); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
		}
		return nil, fmt.Errorf("update property: %w", err)
	}

	resp := response.PropertyToResponse(property)
	return &resp, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, propertyID string, hostID uuid.UUID) error {
	property, err := s.findOwnedProperty(ctx, propertyID, hostID)
	if err != nil {
		return err
	}

	if err := s.repo.Property.Delete(ctx, property.ID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
		}
		return fmt.Errorf("delete property: %w", err)
	}

	s.log.Info("Property deleted", zap.String("property_id", propertyID))
	return nil
}

func (s *propertyService) findProperty(ctx context.Context, propertyID string) (*entity.Property, error) {
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

func (s *propertyService) findOwnedProperty(ctx context.Context, propertyID string, hostID uuid.UUID) (*entity.Property, error) {
	property, err := s.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.HostID != hostID {
		s.log.Warn("Property change by non-host",
			zap.String("property_id", propertyID),
			zap.String("user_id", hostID.String()))
		return nil, fmt.Errorf("property %s is owned by another host: %w", propertyID, ErrForbidden)
	}
	return property, nil
}
