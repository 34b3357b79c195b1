package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dlavelle7/LavelleBlog/internal/models"
	"github.com/dlavelle7/LavelleBlog/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// How many times the signup path retries resolve-nickname + create when it
// loses the uniqueness race to a concurrent signup.
const signupAttempts = 3

var googleOauthConfig *oauth2.Config

// InitGoogleOAuth wires the identity-provider client from the environment.
func InitGoogleOAuth() {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	googleOauthConfig = &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  siteURL + "/auth/google/callback",
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleUserInfo is what the provider hands back after login.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

type AuthHandler struct {
	users *store.UserStore
}

func NewAuthHandler(users *store.UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	Render(c, http.StatusOK, "login.html", gin.H{"Title": "Sign In"})
}

// GoogleLogin starts the OAuth dance.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := generateStateToken()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to generate state token")
		return
	}

	// Keep the state in the session for callback verification
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	url := googleOauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback finishes the OAuth dance. On first login for an email a
// user is created with a collision-free nickname and a self-follow; on any
// later login the existing account is picked up by email.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState := session.Get("oauth_state")

	if savedState == nil || c.Query("state") != savedState.(string) {
		Flash(c, "Invalid login. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session.Delete("oauth_state")
	session.Save()

	code := c.Query("code")
	if code == "" {
		Flash(c, "Invalid login. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token, err := googleOauthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		Flash(c, "Invalid login. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	userInfo, err := getGoogleUserInfo(token.AccessToken)
	if err != nil || userInfo.Email == "" {
		Flash(c, "Invalid login. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), userInfo.Email)
	if errors.Is(err, store.ErrNotFound) {
		user, err = h.signUp(c, userInfo)
	}
	if err != nil {
		Flash(c, "Sign in failed. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// signUp creates the account on first login. The nickname pre-check is only
// advisory, so on a conflict from a concurrent signup we re-resolve and try
// again a bounded number of times.
func (h *AuthHandler) signUp(c *gin.Context, info *GoogleUserInfo) (*models.User, error) {
	candidate := info.GivenName
	if candidate == "" {
		candidate = strings.Split(info.Email, "@")[0]
	}

	var lastErr error
	for i := 0; i < signupAttempts; i++ {
		nickname, err := h.users.ResolveUniqueNickname(c.Request.Context(), candidate)
		if err != nil {
			return nil, err
		}
		user, err := h.users.CreateUser(c.Request.Context(), nickname, info.Email, models.RoleUser)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		// Lost a race. The email may have just been registered by a
		// concurrent login with the same account.
		if existing, findErr := h.users.FindByEmail(c.Request.Context(), info.Email); findErr == nil {
			return existing, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func getGoogleUserInfo(accessToken string) (*GoogleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}
