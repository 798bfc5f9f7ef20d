package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/core/ports"
	"github.com/mdnahid/baki_khata_app/internal/models"
	"github.com/mdnahid/baki_khata_app/internal/utils"
)

// shopsKey is the local cache key holding all registered shops.
const shopsKey = "shops"

// ShopService registers and authenticates shop identities. Shops live
// in the local cache so login works fully offline.
type ShopService struct {
	cache  ports.LocalCache
	logger *slog.Logger

	mu sync.Mutex // serializes read-modify-write of the shops document
}

// NewShopService creates a new shop service.
func NewShopService(cache ports.LocalCache, logger *slog.Logger) *ShopService {
	return &ShopService{cache: cache, logger: logger}
}

func (s *ShopService) loadShops() ([]models.Shop, error) {
	var shops []models.Shop
	if _, err := s.cache.Get(shopsKey, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

// Register creates a new shop with a bcrypt-hashed PIN. The shop name
// is the login handle and must be unique.
func (s *ShopService) Register(ctx context.Context, shopName, pin string) (*models.Shop, error) {
	name := strings.TrimSpace(shopName)
	if name == "" {
		return nil, fmt.Errorf("%w: shop name must not be empty", apperrors.ErrValidation)
	}
	if len(pin) < 4 {
		return nil, fmt.Errorf("%w: pin must be at least 4 characters", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shops, err := s.loadShops()
	if err != nil {
		s.logger.Warn("Shop registry unreadable, starting empty", slog.String("error", err.Error()))
		shops = nil
	}
	for _, shop := range shops {
		if strings.EqualFold(shop.ShopName, name) {
			return nil, fmt.Errorf("%w: shop %q", apperrors.ErrDuplicate, name)
		}
	}

	hash, err := utils.HashPin(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	shop := models.Shop{
		ShopID:    uuid.NewString(),
		ShopName:  name,
		PinHash:   hash,
		CreatedAt: time.Now().UTC(),
	}
	shops = append(shops, shop)
	if err := s.cache.Put(shopsKey, shops); err != nil {
		return nil, fmt.Errorf("failed to persist shop registry: %w", err)
	}
	return &shop, nil
}

// Login verifies the PIN for the named shop. Both an unknown shop and
// a wrong PIN report ErrNotFound so the handler cannot leak which
// half was wrong.
func (s *ShopService) Login(ctx context.Context, shopName, pin string) (*models.Shop, error) {
	name := strings.TrimSpace(shopName)

	s.mu.Lock()
	shops, err := s.loadShops()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to read shop registry: %w", err)
	}

	for _, shop := range shops {
		if strings.EqualFold(shop.ShopName, name) {
			if utils.CheckPinHash(pin, shop.PinHash) {
				return &shop, nil
			}
			break
		}
	}
	return nil, apperrors.ErrNotFound
}
