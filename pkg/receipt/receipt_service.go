package receipt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrNoImage = errors.New("receipt has no stored image")

type Service interface {
	Create(ctx context.Context, receipt Receipt) (Receipt, error)
	Get(ctx context.Context, id string) (Receipt, error)
	GetAll(ctx context.Context) ([]Receipt, error)
	Update(ctx context.Context, receipt Receipt) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	StoreImage(ctx context.Context, id string, image []byte) (Receipt, error)
	GetImage(ctx context.Context, id string) ([]byte, error)
}

type ServiceImpl struct {
	repo        Repo
	bus         *event_bus.EventBus
	storagePath string
}

func NewReceiptService(repo Repo, bus *event_bus.EventBus, storagePath string) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, storagePath: storagePath}
}

func (s *ServiceImpl) Create(ctx context.Context, receipt Receipt) (Receipt, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if receipt.StoreName == "" {
		return Receipt{}, fmt.Errorf("store name is required")
	}
	if receipt.Category == "" {
		receipt.Category = "Uncategorized"
	}

	receipt.ID = uuid.NewString()
	receipt.CreatedAt = time.Now().UTC()
	if err := s.repo.Store(ctx, ownerId, receipt); err != nil {
		return Receipt{}, err
	}

	s.notifyChanged(ctx, ownerId)
	return receipt, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Receipt, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, ownerId, id)
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Receipt, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, ownerId)
}

func (s *ServiceImpl) Update(ctx context.Context, receipt Receipt) (bool, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if receipt.StoreName == "" {
		return false, fmt.Errorf("store name is required")
	}

	updated, err := s.repo.Update(ctx, ownerId, receipt)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("receipt not updated, probably because it does not exist (%s) or the user (%s) is not the owner", receipt.ID, ownerId)
		return false, nil
	}
	s.notifyChanged(ctx, ownerId)
	return true, nil
}

// Delete removes the record only. The stored image file stays on disk.
func (s *ServiceImpl) Delete(ctx context.Context, id string) (bool, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, ownerId, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.notifyChanged(ctx, ownerId)
	}
	return deleted, nil
}

func (s *ServiceImpl) StoreImage(ctx context.Context, id string, image []byte) (Receipt, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to get current user: %w", err)
	}
	rec, err := s.repo.Get(ctx, ownerId, id)
	if err != nil {
		return Receipt{}, err
	}

	if err := os.MkdirAll(s.storagePath, 0755); err != nil {
		return Receipt{}, fmt.Errorf("failed to create receipt storage directory: %w", err)
	}
	imagePath := filepath.Join(s.storagePath, id+".jpg")
	if err := os.WriteFile(imagePath, image, 0644); err != nil {
		return Receipt{}, fmt.Errorf("failed to write receipt image: %w", err)
	}

	rec.ImagePath = imagePath
	if _, err := s.repo.Update(ctx, ownerId, rec); err != nil {
		return Receipt{}, err
	}
	s.notifyChanged(ctx, ownerId)
	return rec, nil
}

func (s *ServiceImpl) GetImage(ctx context.Context, id string) ([]byte, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	rec, err := s.repo.Get(ctx, ownerId, id)
	if err != nil {
		return nil, err
	}
	if rec.ImagePath == "" {
		return nil, ErrNoImage
	}
	if _, err := os.Stat(rec.ImagePath); os.IsNotExist(err) {
		return nil, ErrNoImage
	}
	return os.ReadFile(rec.ImagePath)
}

func (s *ServiceImpl) notifyChanged(ctx context.Context, ownerId string) {
	event := event_bus.NewEvent(ctx, event_bus.ReceiptsChanged, event_bus.CollectionChanged{
		OwnerID:    ownerId,
		Collection: "receipts",
	})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("failed to publish receipts change event: %v", err)
	}
}
