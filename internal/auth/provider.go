package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Identity es la identidad verificada que devuelve el proveedor externo.
type Identity struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
}

// Provider abstrae el flujo OAuth de redireccion externa. Se construye y se
// inyecta explicitamente; nada de singletons ambientales, para poder
// sustituirlo por fakes en tests.
type Provider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (Identity, error)
}

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProvider implementa Provider contra Google con el code flow de OAuth.
type GoogleProvider struct {
	cfg         *oauth2.Config
	userinfoURL string
}

// NewGoogleProvider arma la configuracion OAuth. La URL de retorno se
// construye sobre el origen configurado de la aplicacion.
func NewGoogleProvider(clientID, clientSecret, appBaseURL string) *GoogleProvider {
	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  strings.TrimRight(appBaseURL, "/") + "/auth/callback",
			Scopes:       []string{"openid", "email", "profile"},
		},
		userinfoURL: googleUserinfoURL,
	}
}

func (p *GoogleProvider) Name() string { return "google" }

// AuthURL devuelve la URL de autorizacion pidiendo seleccion explicita de
// cuenta.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange canjea el codigo y consulta el endpoint de userinfo de OpenID.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (Identity, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("oauth exchange: %w", err)
	}

	client := p.cfg.Client(ctx, token)
	resp, err := client.Get(p.userinfoURL)
	if err != nil {
		return Identity{}, fmt.Errorf("userinfo fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("userinfo fetch: status %d", resp.StatusCode)
	}

	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, fmt.Errorf("userinfo decode: %w", err)
	}
	if info.Sub == "" {
		return Identity{}, errors.New("userinfo: empty subject")
	}

	return Identity{
		Provider:    p.Name(),
		Subject:     info.Sub,
		Email:       strings.ToLower(strings.TrimSpace(info.Email)),
		DisplayName: strings.TrimSpace(info.Name),
	}, nil
}
