package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// GoogleStatus describes the Drive link of a user.
type GoogleStatus struct {
	Connected bool
	Expiry    time.Time
}

// GoogleService links users' Google Drive accounts and hands out Drive
// clients authorized as them.
type GoogleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	oauth       *oauth2.Config
	log         logging.Logger

	// driveOptions are appended to every drive.NewService call.
	driveOptions []option.ClientOption
}

// NewGoogleOAuthConfig returns the OAuth client for the Drive appData scope.
func NewGoogleOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveAppdataScope},
	}
}

func NewGoogleService(db *sql.DB, m repomanager.RepositoryManager, cfg *oauth2.Config, log logging.Logger, driveOptions ...option.ClientOption) *GoogleService {
	return &GoogleService{
		db:           db,
		repomanager:  m,
		oauth:        cfg,
		log:          log.With("module", "google"),
		driveOptions: driveOptions,
	}
}

// AuthURL returns the consent page URL and the state value the caller must
// check on the way back. Offline access with a forced consent prompt makes
// Google return a refresh token.
func (s *GoogleService) AuthURL(ctx context.Context, userID string) (string, string, error) {
	state, err := common.MakeRandHexString(16)
	if err != nil {
		return "", "", err
	}
	url := s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	return url, state, nil
}

// Connect exchanges an authorization code and stores the resulting token.
func (s *GoogleService) Connect(ctx context.Context, userID, code string) error {
	if code == "" {
		return fmt.Errorf("%w: missing authorization code", common.ErrInvalidCredentialInput)
	}
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: token exchange: %w", common.ErrRemoteStore, err)
	}
	if err := s.saveToken(ctx, userID, tok); err != nil {
		return err
	}
	s.log.Info(ctx, "google drive connected", "user_id", userID)
	return nil
}

func (s *GoogleService) saveToken(ctx context.Context, userID string, tok *oauth2.Token) error {
	err := s.repomanager.GoogleTokens(s.db).Put(ctx, &models.GoogleToken{
		UserID:       userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	})
	if err != nil {
		return fmt.Errorf("store google token: %w", err)
	}
	return nil
}

func (s *GoogleService) Status(ctx context.Context, userID string) (GoogleStatus, error) {
	tok, err := s.repomanager.GoogleTokens(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return GoogleStatus{}, nil
		}
		return GoogleStatus{}, err
	}
	return GoogleStatus{Connected: true, Expiry: tok.Expiry}, nil
}

// Disconnect forgets the stored token. Disconnecting twice is not an error.
func (s *GoogleService) Disconnect(ctx context.Context, userID string) error {
	err := s.repomanager.GoogleTokens(s.db).Delete(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	s.log.Info(ctx, "google drive disconnected", "user_id", userID)
	return nil
}

// DriveService returns a Drive client authorized as userID. Refreshed access
// tokens are written back to the database.
func (s *GoogleService) DriveService(ctx context.Context, userID string) (*drive.Service, error) {
	stored, err := s.repomanager.GoogleTokens(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotConnected
		}
		return nil, err
	}

	tok := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.Expiry,
		TokenType:    "Bearer",
	}
	ts := &persistingTokenSource{
		base: s.oauth.TokenSource(context.WithoutCancel(ctx), tok),
		last: tok.AccessToken,
		save: func(t *oauth2.Token) error {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			return s.saveToken(ctx, userID, t)
		},
		onSaveErr: func(err error) {
			s.log.Warn(ctx, "failed to persist refreshed google token", "user_id", userID, "error", err)
		},
	}

	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, s.driveOptions...)
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: drive client: %w", common.ErrRemoteStore, err)
	}
	return srv, nil
}

// persistingTokenSource saves every token whose access token differs from
// the last one seen.
type persistingTokenSource struct {
	base      oauth2.TokenSource
	save      func(*oauth2.Token) error
	onSaveErr func(error)

	mu   sync.Mutex
	last string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	t, err := p.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh google token: %w", common.ErrRemoteStore, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if t.AccessToken != p.last {
		if err := p.save(t); err != nil {
			p.onSaveErr(err)
		} else {
			p.last = t.AccessToken
		}
	}
	return t, nil
}
