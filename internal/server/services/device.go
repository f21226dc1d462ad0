package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/server/auth"
	sc "github.com/dverbovy/tabstock/internal/server/config"
	"github.com/dverbovy/tabstock/internal/server/models"
	"github.com/dverbovy/tabstock/internal/server/repositories/repomanager"
)

// DeviceService turns a device registration into a device user row plus a
// session token for the sync API. There are no refresh tokens; devices
// simply re-register when the token expires.
type DeviceService struct {
	db     dbx.DBTX
	repos  repomanager.RepositoryManager
	config *sc.Config
}

func NewDeviceService(db dbx.DBTX, repos repomanager.RepositoryManager, config *sc.Config) *DeviceService {
	return &DeviceService{db: db, repos: repos, config: config}
}

func (s *DeviceService) Register(ctx context.Context, deviceName string) (string, string, error) {
	user := &models.DeviceUser{
		ID:        uuid.NewString(),
		Name:      deviceName,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repos.DeviceUsers(s.db).CreateOrUpdate(ctx, user); err != nil {
		return "", "", fmt.Errorf("failed to register device: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, []byte(s.config.SecretKey), s.config.AccessTokenValidityDuration)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user.ID, token, nil
}
