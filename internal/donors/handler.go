package donors

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/donorhub/donorhub/internal/platform/httpx"
	"github.com/donorhub/donorhub/internal/shared"
	"github.com/donorhub/donorhub/internal/view"
)

// Handler wires HTTP endpoints for registration, profile and the donor list.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		validator: validator.New(),
	}
}

// MountRoutes registers donor routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/register", h.showRegister)
	r.Post("/register", h.handleRegister)
	r.Get("/home", h.showHome)
	r.Get("/profile", h.showProfile)
	r.Get("/profile-data", h.profileData)
	r.Post("/updateProfile", h.updateProfile)
	r.Get("/donorlist", h.donorList)
}

// registerForm mirrors the registration form fields. Only presence (and
// email shape) is checked; anything stricter is out of scope.
type registerForm struct {
	Username   string `validate:"required"`
	Email      string `validate:"required,email"`
	Password   string `validate:"required"`
	BloodGroup string `validate:"required"`
	Hometown   string `validate:"required"`
	Mobile     string `validate:"required"`
}

type registerPageData struct {
	Form   registerForm
	Errors map[string]string
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, registerPageData{})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := registerForm{
		Username:   r.PostFormValue("username"),
		Email:      r.PostFormValue("email"),
		Password:   r.PostFormValue("password"),
		BloodGroup: r.PostFormValue("bloodGroup"),
		Hometown:   r.PostFormValue("district"),
		Mobile:     r.PostFormValue("contactNumber"),
	}
	formErrors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		formErrors["general"] = "All fields are required"
	}

	if len(formErrors) == 0 {
		_, err := h.service.Register(r.Context(), Registration{
			Email:      form.Email,
			Password:   form.Password,
			Username:   form.Username,
			Mobile:     form.Mobile,
			BloodGroup: form.BloodGroup,
			Hometown:   form.Hometown,
		})
		switch {
		case err == nil:
			if sess := shared.SessionFromContext(r.Context()); sess != nil {
				sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Registration Successful! Please login"})
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		case errors.Is(err, shared.ErrDuplicateEmail):
			formErrors["general"] = "Email already exists"
		default:
			h.logger.Error("register donor", slog.Any("error", err))
			formErrors["general"] = "Something went wrong"
		}
	}

	h.renderRegister(w, r, registerPageData{Form: form, Errors: formErrors})
}

func (h *Handler) showHome(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		h.renderNotLoggedIn(w, r)
		return
	}
	h.renderPage(w, r, "pages/home.html", "Home", nil)
}

func (h *Handler) showProfile(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		h.renderNotLoggedIn(w, r)
		return
	}
	h.renderPage(w, r, "pages/profile.html", "My Profile", nil)
}

func (h *Handler) profileData(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.RespondError(w, shared.ErrNotAuthenticated)
		return
	}
	profile, err := h.service.GetProfile(r.Context(), sess.Email())
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("load profile", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		http.Error(w, "You are not logged in", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	update := ProfileUpdate{
		Username: r.PostFormValue("username"),
		Mobile:   r.PostFormValue("mobile"),
		Hometown: r.PostFormValue("hometown"),
	}
	if raw := r.PostFormValue("lastDonation"); raw != "" {
		t, err := time.Parse(DonationDateLayout, raw)
		if err != nil {
			http.Error(w, "Invalid last donation date", http.StatusBadRequest)
			return
		}
		update.LastDonation = &t
	}

	if err := h.service.UpdateProfile(r.Context(), sess.Email(), update); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.Error("update profile", slog.Any("error", err))
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	sess.SetUsername(update.Username)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *Handler) donorList(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListDonors(r.Context())
	if err != nil {
		h.logger.Error("list donors", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch donors")
		return
	}
	if cards == nil {
		cards = []DonorCard{}
	}
	httpx.JSON(w, http.StatusOK, cards)
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, data registerPageData) {
	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Donor Registration",
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/register.html", viewData); err != nil {
		h.logger.Error("render register", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	username := ""
	if sess != nil {
		flash = sess.PopFlash()
		username = sess.Username()
	}
	viewData := view.TemplateData{
		Title:       title,
		Flash:       flash,
		Username:    username,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, name, viewData); err != nil {
		h.logger.Error("render page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) renderNotLoggedIn(w http.ResponseWriter, r *http.Request) {
	viewData := view.TemplateData{
		Title:       "Not logged in",
		CurrentPath: r.URL.Path,
	}
	if err := h.templates.Render(w, "pages/notloggedin.html", viewData); err != nil {
		h.logger.Error("render not-logged-in notice", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
