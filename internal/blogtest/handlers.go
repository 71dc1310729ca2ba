package blogtest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/gorilla/mux"
)

type ctxKey string

const userIDKey ctxKey = "userID"

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func send(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Code: status, Message: message, Data: data})
}

func sendError(w http.ResponseWriter, status int, message string) {
	send(w, status, message, nil)
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func callerID(r *http.Request) int {
	id, _ := r.Context().Value(userIDKey).(int)
	return id
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing credentials", http.StatusUnauthorized)
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			http.Error(w, "invalid auth header format", http.StatusUnauthorized)
			return
		}
		userID, err := s.userIDFromToken(raw)
		if err != nil {
			sendError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		s.mu.Lock()
		_, exists := s.accounts[userID]
		s.mu.Unlock()
		if !exists {
			sendError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		a, ok := s.accounts[callerID(r)]
		s.mu.Unlock()
		if !ok || a.user.RoleID != models.RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(2 << 20); err != nil {
		sendError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	username, password, email := r.FormValue("username"), r.FormValue("password"), r.FormValue("email")
	if username == "" || password == "" || email == "" {
		sendError(w, http.StatusBadRequest, "username, password and email are required")
		return
	}

	var avatar []byte
	if f, _, err := r.FormFile("avatar"); err == nil {
		avatar, _ = io.ReadAll(f)
		f.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Username == username {
			sendError(w, http.StatusConflict, "username already taken")
			return
		}
	}
	u := s.addUserLocked(username, password, email, models.RoleUser)
	if avatar != nil {
		path := "/uploads/avatar-" + strconv.Itoa(u.ID)
		s.uploads[path] = avatar
		s.accounts[u.ID].user.ImageData = path
	}

	if !s.registerIssuesToken {
		send(w, http.StatusCreated, "registered", nil)
		return
	}
	tok, err := s.mintLocked(u.ID, s.tokenTTL)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	user := s.accounts[u.ID].user
	send(w, http.StatusCreated, "registered", models.AuthResult{Token: tok, User: &user})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginForm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Username != req.Username || a.password != req.Password {
			continue
		}
		tok, err := s.mintLocked(a.user.ID, s.tokenTTL)
		if err != nil {
			sendError(w, http.StatusInternalServerError, "token generation failed")
			return
		}
		out := models.AuthResult{Token: tok}
		if s.loginIncludesUser {
			user := a.user
			out.User = &user
		}
		send(w, http.StatusOK, "logged in", out)
		return
	}
	sendError(w, http.StatusUnauthorized, "invalid username or password")
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	send(w, http.StatusOK, "ok", s.accounts[callerID(r)].user)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[callerID(r)]
	if in.Username != "" {
		a.user.Username = in.Username
	}
	if in.Email != "" {
		a.user.Email = in.Email
	}
	send(w, http.StatusOK, "profile updated", nil)
}

func (s *Server) articleCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[callerID(r)]
	n := 0
	for _, art := range s.articles {
		if art.Author == a.user.Username {
			n++
		}
	}
	send(w, http.StatusOK, "ok", models.ArticleCount{Username: a.user.Username, ArticleCount: n})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var in models.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	if id != callerID(r) {
		sendError(w, http.StatusForbidden, "forbidden")
		return
	}
	a := s.accounts[id]
	if a.password != in.OldPassword {
		sendError(w, http.StatusBadRequest, "old password is incorrect")
		return
	}
	a.password = in.NewPassword
	send(w, http.StatusOK, "password changed", nil)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.accounts))
	for id := 1; id < s.nextID; id++ {
		if a, ok := s.accounts[id]; ok {
			out = append(out, a.user)
		}
	}
	send(w, http.StatusOK, "ok", out)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	if _, ok := s.accounts[id]; !ok {
		sendError(w, http.StatusNotFound, "user not found")
		return
	}
	delete(s.accounts, id)
	send(w, http.StatusOK, "user deleted", nil)
}

func (s *Server) updateRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoleID int `json:"role_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[pathID(r)]
	if !ok {
		sendError(w, http.StatusNotFound, "user not found")
		return
	}
	a.user.RoleID = req.RoleID
	send(w, http.StatusOK, "role updated", nil)
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoryID, _ := strconv.Atoi(q.Get("category_id"))
	search := strings.ToLower(q.Get("search"))
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if categoryID > 0 && a.Category.ID != categoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Title+" "+a.Content), search) {
			continue
		}
		out = append(out, a)
	}
	if page > 0 && size > 0 {
		start := min((page-1)*size, len(out))
		end := min(start+size, len(out))
		out = out[start:end]
	}
	send(w, http.StatusOK, "ok", out)
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.articles, pathID(r))
	if i < 0 {
		sendError(w, http.StatusNotFound, "article not found")
		return
	}
	s.articles[i].Views++
	send(w, http.StatusOK, "ok", s.articles[i])
}

func decodeArticle(r *http.Request) (models.ArticleInput, bool) {
	var in models.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" || in.Content == "" {
		return in, false
	}
	return in, true
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeArticle(r)
	if !ok {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := in.Article()
	a.ID = s.id()
	a.CreatedAt = time.Now().UTC().Truncate(time.Second)
	a.Category = s.categoryLocked(in.CategoryName)
	s.articles = append(s.articles, a)
	send(w, http.StatusCreated, "article created", map[string]int{"id": a.ID})
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeArticle(r)
	if !ok {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.articles, pathID(r))
	if i < 0 {
		sendError(w, http.StatusNotFound, "article not found")
		return
	}
	a := &s.articles[i]
	a.Title, a.Content, a.Author, a.ImagePath = in.Title, in.Content, in.Author, in.ImagePath
	a.Category = s.categoryLocked(in.CategoryName)
	send(w, http.StatusOK, "article updated", nil)
}

func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.articles, pathID(r))
	if i < 0 {
		sendError(w, http.StatusNotFound, "article not found")
		return
	}
	s.articles = append(s.articles[:i], s.articles[i+1:]...)
	send(w, http.StatusOK, "article deleted", nil)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	articleID := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	send(w, http.StatusOK, "ok", out)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Content == "" {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	articleID := pathID(r)
	if indexOf(s.articles, articleID) < 0 {
		sendError(w, http.StatusNotFound, "article not found")
		return
	}
	c := in.Comment(articleID)
	c.ID = s.id()
	c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	s.comments = append(s.comments, c)
	send(w, http.StatusCreated, "comment created", map[string]int{"id": c.ID})
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Content == "" {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.comments, pathID(r))
	if i < 0 {
		sendError(w, http.StatusNotFound, "comment not found")
		return
	}
	s.comments[i].Content = in.Content
	send(w, http.StatusOK, "comment updated", nil)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.comments, pathID(r))
	if i < 0 {
		sendError(w, http.StatusNotFound, "comment not found")
		return
	}
	s.comments = append(s.comments[:i], s.comments[i+1:]...)
	send(w, http.StatusOK, "comment deleted", nil)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	send(w, http.StatusOK, "ok", append([]models.Category{}, s.categories...))
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.categories, pathID(r))
	if i < 0 {
		sendError(w, http.StatusNotFound, "category not found")
		return
	}
	send(w, http.StatusOK, "ok", s.categories[i])
}

func (s *Server) categoryArticles(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Article, 0)
	for _, a := range s.articles {
		if a.Category.ID == id {
			out = append(out, a)
		}
	}
	send(w, http.StatusOK, "ok", out)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := in.Category()
	c.ID = s.id()
	s.categories = append(s.categories, c)
	send(w, http.StatusCreated, "category created", map[string]int{"id": c.ID})
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		sendError(w, http.StatusBadRequest, "invalid request data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.categories, pathID(r))
	if i < 0 {
		sendError(w, http.StatusNotFound, "category not found")
		return
	}
	s.categories[i].Name, s.categories[i].Description = in.Name, in.Description
	send(w, http.StatusOK, "category updated", nil)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.categories, pathID(r))
	if i < 0 {
		sendError(w, http.StatusNotFound, "category not found")
		return
	}
	s.categories = append(s.categories[:i], s.categories[i+1:]...)
	send(w, http.StatusOK, "category deleted", nil)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		sendError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		sendError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid file")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := "/uploads/" + strconv.Itoa(s.id()) + "-" + hdr.Filename
	s.uploads[path] = data
	send(w, http.StatusOK, "uploaded", models.UploadResult{Path: path})
}
