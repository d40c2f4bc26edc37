package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/plazacoche/charger-rota/internal/config"
	"github.com/plazacoche/charger-rota/pkg/utils"
)

// Client wraps the Gmail API client
type Client struct {
	service      *gmail.Service
	sender       string
	lastSendTime time.Time
	sendMutex    sync.Mutex
}

// NewClient creates a new Gmail client from the configured Google credentials.
// sender is used as the From header when set.
func NewClient(ctx context.Context, googleCfg *config.GoogleConfig, sender string) (*Client, error) {
	tokenSource, err := utils.GoogleTokenSource(ctx, googleCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get google token source: %w", err)
	}

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{
		service: service,
		sender:  sender,
	}, nil
}
