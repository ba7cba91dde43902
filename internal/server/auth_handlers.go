package server

import (
	"time"

	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

const refreshCookieMaxAge = 24 * 60 * 60

func (s *Server) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		HTTPOnly: true,
		MaxAge:   refreshCookieMaxAge,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Register handles POST /register
// @Summary User signup
// @Description Register a new user account and receive an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,passwordConfirm=string} true "Signup request"
// @Success 201 {object} object{message=string,accessToken=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"passwordConfirm"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, pair, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "New User " + user.Username + " created.",
		"accessToken": pair.AccessToken,
	})
}

// Login handles POST /login
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login request"
// @Success 200 {object} object{accessToken=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	_, pair, err := s.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{"accessToken": pair.AccessToken})
}

// Refresh handles GET /refresh
// @Summary Issue a new access token from the refresh cookie
// @Tags auth
// @Produce json
// @Success 200 {object} object{accessToken=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /refresh [get]
func (s *Server) Refresh(c *fiber.Ctx) error {
	access, err := s.authService.Refresh(c.UserContext(), c.Cookies(refreshCookie))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"accessToken": access})
}

// Logout handles GET /logout
// @Summary Forget the refresh token
// @Tags auth
// @Success 204
// @Router /logout [get]
func (s *Server) Logout(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err := s.authService.Logout(c.UserContext(), token); err != nil {
		return err
	}
	c.ClearCookie(refreshCookie)
	return c.SendStatus(fiber.StatusNoContent)
}

// ForgetPassword handles POST /forgetPassword
// @Summary Send a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Account email"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /forgetPassword [post]
func (s *Server) ForgetPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	reset, err := s.authService.ForgetPassword(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     resetCookie,
		Value:    reset.Token,
		HTTPOnly: true,
		Expires:  reset.Expires,
		MaxAge:   int(time.Until(reset.Expires).Seconds()),
		Secure:   s.config.IsProduction(),
	})
	return c.JSON(fiber.Map{"message": "Please check your Email to reset your password!"})
}

// ResetPassword handles PUT /resetPassword/:token
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string false "Reset token, falls back to the token cookie"
// @Param request body object{password=string,passwordConfirm=string} true "New password"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /resetPassword/{token} [put]
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Password        string `json:"password"`
		PasswordConfirm string `json:"passwordConfirm"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token := c.Params("token")
	if token == "" {
		token = c.Cookies(resetCookie)
	}

	if err := s.authService.ResetPassword(c.UserContext(), token, req.Password, req.PasswordConfirm); err != nil {
		return err
	}
	c.ClearCookie(resetCookie)
	return c.JSON(fiber.Map{"message": "success"})
}

// UpdateMyPassword handles PUT /users/updateMyPassword
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{passwordCurrent=string,password=string,passwordConfirm=string} true "Password change"
// @Success 200 {object} object{message=string,accessToken=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/updateMyPassword [put]
func (s *Server) UpdateMyPassword(c *fiber.Ctx) error {
	var req struct {
		PasswordCurrent string `json:"passwordCurrent"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"passwordConfirm"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	pair, err := s.authService.UpdatePassword(c.UserContext(), service.UpdatePasswordInput{
		UserID:          currentUser(c).ID,
		PasswordCurrent: req.PasswordCurrent,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{
		"message":     "success",
		"accessToken": pair.AccessToken,
	})
}
