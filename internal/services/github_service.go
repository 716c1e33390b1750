package services

import (
	"context"
	"errors"
	"time"

	"github.com/alimgiray/commentbox/internal/apperror"
	"github.com/alimgiray/commentbox/pkg/config"
	gogithub "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// upstreamTimeout bounds the outbound calls to GitHub so a hung
// exchange fails the login attempt instead of hanging the request.
const upstreamTimeout = 10 * time.Second

var errUserWithoutID = errors.New("GitHub returned a user without an id")

type GitHubService struct {
	oauthConfig *oauth2.Config
}

// GitHubProfile is the slice of the GitHub user object this service
// cares about.
type GitHubProfile struct {
	ID         int64
	Login      string
	ProfileURL string
	AvatarURL  string
}

func NewGitHubService() *GitHubService {
	oauthConfig := &oauth2.Config{
		ClientID:     config.AppConfig.GitHub.ClientID,
		ClientSecret: config.AppConfig.GitHub.ClientSecret,
		RedirectURL:  config.AppConfig.GitHub.CallbackURL,
		Scopes: []string{
			"read:user", // Read access to user profile data
		},
		Endpoint: github.Endpoint,
	}

	return &GitHubService{
		oauthConfig: oauthConfig,
	}
}

// AuthURL returns the GitHub authorization URL carrying the given
// anti-forgery state.
func (s *GitHubService) AuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for an access token. Failure
// is fatal to the login attempt.
func (s *GitHubService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.Upstream("exchange code for token", err)
	}
	return token, nil
}

// FetchProfile retrieves the authenticated user's profile with the
// access token.
func (s *GitHubService) FetchProfile(ctx context.Context, token *oauth2.Token) (*GitHubProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	client := gogithub.NewClient(s.oauthConfig.Client(ctx, token))

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, apperror.Upstream("fetch user profile", err)
	}
	if user.GetID() == 0 {
		return nil, apperror.Upstream("fetch user profile", errUserWithoutID)
	}

	return &GitHubProfile{
		ID:         user.GetID(),
		Login:      user.GetLogin(),
		ProfileURL: user.GetHTMLURL(),
		AvatarURL:  user.GetAvatarURL(),
	}, nil
}
