package identity

import (
	"net/http"

	"github.com/goliatone/go-router"
)

// AuthController serves the authentication endpoints as a JSON API
type AuthController struct {
	Logger       Logger
	Auth         AuthService
	Middleware   MiddlewareConfig
	ErrorHandler func(router.Context, error) error
}

// AuthControllerOption customizes controller construction
type AuthControllerOption func(*AuthController) *AuthController

// WithAuthService sets the authentication core
func WithAuthService(svc AuthService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = svc
		return c
	}
}

// WithAuthMiddleware sets the bearer middleware configuration
func WithAuthMiddleware(cfg MiddlewareConfig) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Middleware = cfg
		return c
	}
}

// WithAuthControllerLogger sets the controller logger
func WithAuthControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// NewAuthController builds the controller, panicking on missing wiring
func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing AuthService in auth controller...")
	}

	if c.Middleware.Validator == nil {
		panic("Missing TokenValidator in auth controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = NewErrorWriter(c.Logger).WriteJSONError
	}

	return c
}

// RegisterAuthRoutes mounts the authentication endpoints under /api/auth
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	requireAuth := RequireAuth(controller.Middleware)

	app.Post("/api/auth/register", controller.RegisterPost).
		SetName("auth.register.post")

	app.Post("/api/auth/login", controller.LoginPost).
		SetName("auth.login.post")

	app.Post("/api/auth/logout", controller.LogoutPost, requireAuth).
		SetName("auth.logout.post")

	app.Get("/api/auth/me", controller.MeGet, requireAuth).
		SetName("auth.me.get")

	app.Get("/api/auth/check-email", controller.CheckEmailGet).
		SetName("auth.check-email.get")

	app.Get("/api/auth/check-phone", controller.CheckPhoneGet).
		SetName("auth.check-phone.get")
}

// RegisterPost creates an account and answers 201 with the token
func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterInput)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.ErrorHandler(ctx, ValidationError(err))
	}

	res, err := a.Auth.Register(ctx.Context(), *payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OKResponse("User registered successfully", res))
}

// LoginPost authenticates a credential pair
func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginInput)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.ErrorHandler(ctx, ValidationError(err))
	}

	res, err := a.Auth.Login(ctx.Context(), *payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("Login successful", res))
}

// LogoutPost acknowledges the logout, the token stays client side
func (a *AuthController) LogoutPost(ctx router.Context) error {
	if err := a.Auth.Logout(ctx.Context(), ctx.Header("Authorization")); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("Logged out successfully", nil))
}

// MeGet returns the profile behind the presented token
func (a *AuthController) MeGet(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, a.Middleware.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrTokenMalformed)
	}

	profile, err := a.Auth.CurrentUser(ctx.Context(), claims.UserID())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("User retrieved successfully", profile))
}

// CheckEmailGet reports email availability
func (a *AuthController) CheckEmailGet(ctx router.Context) error {
	email := ctx.Query("email", "")

	available, err := a.Auth.IsEmailAvailable(ctx.Context(), email)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("Email availability checked", map[string]bool{
		"available": available,
	}))
}

// CheckPhoneGet reports phone availability
func (a *AuthController) CheckPhoneGet(ctx router.Context) error {
	phone := ctx.Query("phone", "")

	available, err := a.Auth.IsPhoneAvailable(ctx.Context(), phone)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("Phone availability checked", map[string]bool{
		"available": available,
	}))
}

// UserController serves the profile and administrative endpoints
type UserController struct {
	Logger       Logger
	Users        UserService
	Middleware   MiddlewareConfig
	ErrorHandler func(router.Context, error) error
}

// UserControllerOption customizes controller construction
type UserControllerOption func(*UserController) *UserController

// WithUserService sets the lifecycle manager
func WithUserService(svc UserService) UserControllerOption {
	return func(c *UserController) *UserController {
		c.Users = svc
		return c
	}
}

// WithUserMiddleware sets the bearer middleware configuration
func WithUserMiddleware(cfg MiddlewareConfig) UserControllerOption {
	return func(c *UserController) *UserController {
		c.Middleware = cfg
		return c
	}
}

// WithUserControllerLogger sets the controller logger
func WithUserControllerLogger(logger Logger) UserControllerOption {
	return func(c *UserController) *UserController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// NewUserController builds the controller, panicking on missing wiring
func NewUserController(opts ...UserControllerOption) *UserController {
	c := &UserController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Users == nil {
		panic("Missing UserService in user controller...")
	}

	if c.Middleware.Validator == nil {
		panic("Missing TokenValidator in user controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = NewErrorWriter(c.Logger).WriteJSONError
	}

	return c
}

// RegisterUserRoutes mounts the user endpoints under /api/users. The
// administrative routes stack the admin role guard on the bearer check.
func RegisterUserRoutes[T any](app router.Router[T], opts ...UserControllerOption) {
	controller := NewUserController(opts...)

	requireAuth := RequireAuth(controller.Middleware)
	requireAdmin := RequireAdmin(controller.Middleware)

	app.Get("/api/users/profile", controller.ProfileGet, requireAuth).
		SetName("users.profile.get")

	app.Put("/api/users/profile", controller.ProfilePut, requireAuth).
		SetName("users.profile.put")

	app.Get("/api/users/all", controller.AllGet, requireAuth, requireAdmin).
		SetName("users.all.get")

	app.Put("/api/users/:id/deactivate", controller.DeactivatePut, requireAuth, requireAdmin).
		SetName("users.deactivate.put")

	app.Put("/api/users/:id/activate", controller.ActivatePut, requireAuth, requireAdmin).
		SetName("users.activate.put")

	app.Get("/api/users/stats/total", controller.StatsTotalGet, requireAuth, requireAdmin).
		SetName("users.stats-total.get")
}

// ProfileGet returns the caller's profile
func (u *UserController) ProfileGet(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, u.Middleware.ContextKey)
	if !ok {
		return u.ErrorHandler(ctx, ErrTokenMalformed)
	}

	user, err := u.Users.GetUserByID(ctx.Context(), claims.UserID())
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("Profile retrieved successfully", user.Profile()))
}

// ProfilePut applies a partial update to the caller's profile
func (u *UserController) ProfilePut(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, u.Middleware.ContextKey)
	if !ok {
		return u.ErrorHandler(ctx, ErrTokenMalformed)
	}

	payload := new(ProfileInput)
	if err := ctx.Bind(payload); err != nil {
		u.Logger.Error("profile parse payload", "error", err)
		return u.ErrorHandler(ctx, ValidationError(err))
	}

	profile, err := u.Users.UpdateProfile(ctx.Context(), claims.UserID(), *payload)
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("Profile updated successfully", profile))
}

// AllGet lists the active accounts
func (u *UserController) AllGet(ctx router.Context) error {
	profiles, err := u.Users.GetAllUsers(ctx.Context())
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("Users retrieved successfully", profiles))
}

// DeactivatePut blocks future logins for the account
func (u *UserController) DeactivatePut(ctx router.Context) error {
	if err := u.Users.DeactivateUser(ctx.Context(), ctx.Param("id", "")); err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("User deactivated successfully", nil))
}

// ActivatePut restores the account
func (u *UserController) ActivatePut(ctx router.Context) error {
	if err := u.Users.ActivateUser(ctx.Context(), ctx.Param("id", "")); err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("User activated successfully", nil))
}

// StatsTotalGet counts the active accounts
func (u *UserController) StatsTotalGet(ctx router.Context) error {
	total, err := u.Users.GetTotalActiveUsers(ctx.Context())
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OKResponse("Total users retrieved", map[string]int{
		"total": total,
	}))
}
