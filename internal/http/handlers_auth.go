package http

import (
	"net/http"

	"wagewise/internal/auth"
	"wagewise/internal/log"
	"wagewise/internal/storage"
)

type authPage struct {
	Title   string
	Action  string
	Email   string
	Error   string
	Notice  string
	MinPass int
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	page := authPage{Title: "Log in", Action: "/login", MinPass: auth.MinPasswordLength}
	if r.URL.Query().Get("reason") == "expired" {
		page.Notice = "Please log in to continue"
	}
	s.render(w, r, http.StatusOK, "login.html", page)
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "signup.html", authPage{Title: "Create account", Action: "/signup", MinPass: auth.MinPasswordLength})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	page := authPage{Title: "Create account", Action: "/signup", MinPass: auth.MinPasswordLength}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	page.Email = sanitizeInput(r.PostForm.Get("email"))

	u, err := s.accounts.Signup(r.Context(), page.Email, r.PostForm.Get("password"))
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			logRequestError(r, "Signup failed", err)
		}
		page.Error = msg
		s.render(w, r, status, "signup.html", page)
		return
	}
	s.startSession(w, r, u, log.OpSignup)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	page := authPage{Title: "Log in", Action: "/login", MinPass: auth.MinPasswordLength}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	page.Email = sanitizeInput(r.PostForm.Get("email"))

	u, err := s.accounts.Login(r.Context(), page.Email, r.PostForm.Get("password"))
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			logRequestError(r, "Login failed", err)
		}
		page.Error = msg
		s.render(w, r, status, "login.html", page)
		return
	}
	s.startSession(w, r, u, log.OpLogin)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, u storage.User, op string) {
	token, session, err := s.issuer.Issue(u.ID, u.Email)
	if err != nil {
		logRequestError(r, "Failed to issue session", err)
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}
	auth.SetCookie(w, token, session.ExpiresAt, s.secureCookies)

	fields := log.NewFields().
		WithOperation(op).
		WithUser(u.ID)
	log.FromContext(r.Context()).WithComponent(log.ComponentAuth).InfoContext(r.Context(), "Session started", fields.ToSlice()...)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w, s.secureCookies)
	if r.Header.Get("HX-Request") != "" {
		NewHTMXResponse().Header("HX-Redirect", "/login").Write(w)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
