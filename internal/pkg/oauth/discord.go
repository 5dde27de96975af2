package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
)

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

type DiscordService interface {
	// GenerateState generates a random state string for OAuth2 flows.
	GenerateState(userAgent string) string
	// RedirectURL generates the OAuth2 redirect URL with a state.
	RedirectURL(state string) string
	// VerifyToken exchanges the code for an OAuth2 token.
	VerifyToken(ctx context.Context, code string) (*oauth2.Token, error)
	// VerifyUser fetches the Discord user information.
	VerifyUser(ctx context.Context, token *oauth2.Token) (DiscordInformation, error)
}

type DiscordServiceImpl struct {
	config *oauth2.Config
}

func NewDiscordService(clientID string, clientSecret string, redirectURL string, scopes []string) DiscordService {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     discordEndpoint,
	}
	return &DiscordServiceImpl{config: config}
}

// DiscordInformation is the subset of /users/@me the identity merge needs.
type DiscordInformation struct {
	DiscordID string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Verified  bool   `json:"verified"`
	Avatar    string `json:"avatar"`
}

// AvatarURL builds the CDN URL for the user's avatar, empty when unset.
func (d DiscordInformation) AvatarURL() string {
	if d.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", d.DiscordID, d.Avatar)
}

// GenerateState generates a random state string for OAuth2 flows.
func (d *DiscordServiceImpl) GenerateState(userAgent string) string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	state := fmt.Sprintf("%s.%s", base64.URLEncoding.EncodeToString(b), userAgent)
	return base64.URLEncoding.EncodeToString([]byte(state))
}

func (d *DiscordServiceImpl) RedirectURL(state string) string {
	return d.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (d *DiscordServiceImpl) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := d.config.Exchange(ctx, code)
	if err != nil {
		return &oauth2.Token{}, err
	}
	return token, nil
}

func (d *DiscordServiceImpl) VerifyUser(ctx context.Context, token *oauth2.Token) (DiscordInformation, error) {
	var info DiscordInformation

	client := d.config.Client(ctx, token)

	resp, err := client.Get("https://discord.com/api/users/@me")
	if err != nil {
		return DiscordInformation{}, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return DiscordInformation{}, err
	}

	return info, nil
}
