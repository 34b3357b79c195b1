package handlers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dlavelle7/LavelleBlog/internal/services"
	"github.com/dlavelle7/LavelleBlog/internal/store"

	"github.com/gin-gonic/gin"
)

const maxAboutMeLength = 140

type UserHandler struct {
	users   *store.UserStore
	posts   *store.PostStore
	mail    *services.MailService
	perPage int
}

func NewUserHandler(users *store.UserStore, posts *store.PostStore, mail *services.MailService) *UserHandler {
	return &UserHandler{
		users:   users,
		posts:   posts,
		mail:    mail,
		perPage: postsPerPage(),
	}
}

// Profile renders a user's page with their own posts, newest first.
func (h *UserHandler) Profile(c *gin.Context) {
	nickname := c.Param("nickname")

	user, err := h.users.FindByNickname(c.Request.Context(), nickname)
	if err != nil {
		Flash(c, "User "+nickname+" not found.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	page, err := h.posts.ListByAuthor(c.Request.Context(), user.ID, pageParam(c), h.perPage)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load posts")
		return
	}

	current := CurrentUser(c)
	following := false
	if current != nil && current.ID != user.ID {
		following, _ = h.users.IsFollowing(c.Request.Context(), current.ID, user.ID)
	}
	followers, _ := h.users.FollowerCount(c.Request.Context(), user.ID)
	followed, _ := h.users.FollowingCount(c.Request.Context(), user.ID)

	Render(c, http.StatusOK, "user.html", gin.H{
		"Title":          user.Nickname,
		"User":           user,
		"Page":           page,
		"IsFollowing":    following,
		"FollowerCount":  followers,
		"FollowingCount": followed,
	})
}

func (h *UserHandler) ShowEdit(c *gin.Context) {
	user := CurrentUser(c)
	Render(c, http.StatusOK, "edit.html", gin.H{
		"Title":    "Edit Profile",
		"Nickname": user.Nickname,
		"AboutMe":  user.AboutMe,
	})
}

// Edit updates nickname and about-me. A nickname held by someone else comes
// back as a validation message on the form.
func (h *UserHandler) Edit(c *gin.Context) {
	user := CurrentUser(c)

	nickname := strings.TrimSpace(c.PostForm("nickname"))
	aboutMe := c.PostForm("about_me")

	if nickname == "" {
		Render(c, http.StatusBadRequest, "edit.html", gin.H{
			"Title":    "Edit Profile",
			"Error":    "Nickname is required.",
			"Nickname": nickname,
			"AboutMe":  aboutMe,
		})
		return
	}
	if utf8.RuneCountInString(aboutMe) > maxAboutMeLength {
		Render(c, http.StatusBadRequest, "edit.html", gin.H{
			"Title":    "Edit Profile",
			"Error":    "About me is limited to 140 characters.",
			"Nickname": nickname,
			"AboutMe":  aboutMe,
		})
		return
	}

	err := h.users.UpdateProfile(c.Request.Context(), user, nickname, aboutMe)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			Render(c, http.StatusConflict, "edit.html", gin.H{
				"Title":    "Edit Profile",
				"Error":    "This nickname is already in use. Please choose another one.",
				"Nickname": nickname,
				"AboutMe":  aboutMe,
			})
			return
		}
		RenderError(c, http.StatusInternalServerError, "Could not save your changes")
		return
	}

	Flash(c, "Your changes have been saved.")
	c.Redirect(http.StatusFound, "/edit")
}

// Follow adds the current user as a follower of :nickname and kicks off the
// notification email in the background. Following again is a quiet no-op.
func (h *UserHandler) Follow(c *gin.Context) {
	current := CurrentUser(c)
	nickname := c.Param("nickname")

	user, err := h.users.FindByNickname(c.Request.Context(), nickname)
	if err != nil {
		Flash(c, "User "+nickname+" not found.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if user.ID == current.ID {
		Flash(c, "You can't follow yourself!")
		c.Redirect(http.StatusFound, "/u/"+nickname)
		return
	}

	created, err := h.users.Follow(c.Request.Context(), current.ID, user.ID)
	if err != nil {
		Flash(c, "Cannot follow "+nickname+".")
		c.Redirect(http.StatusFound, "/u/"+nickname)
		return
	}
	if created {
		h.mail.SendFollowerNotification(user, current)
	}

	Flash(c, "You are now following "+nickname+"!")
	c.Redirect(http.StatusFound, "/u/"+nickname)
}

// Unfollow removes the edge; unfollowing someone you don't follow is fine.
func (h *UserHandler) Unfollow(c *gin.Context) {
	current := CurrentUser(c)
	nickname := c.Param("nickname")

	user, err := h.users.FindByNickname(c.Request.Context(), nickname)
	if err != nil {
		Flash(c, "User "+nickname+" not found.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if user.ID == current.ID {
		Flash(c, "You can't unfollow yourself!")
		c.Redirect(http.StatusFound, "/u/"+nickname)
		return
	}

	if _, err := h.users.Unfollow(c.Request.Context(), current.ID, user.ID); err != nil {
		Flash(c, "Cannot unfollow "+nickname+".")
		c.Redirect(http.StatusFound, "/u/"+nickname)
		return
	}

	Flash(c, "You have stopped following "+nickname+".")
	c.Redirect(http.StatusFound, "/u/"+nickname)
}
