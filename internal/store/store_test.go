package store

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devtrack/taskboard/internal/client"
	"github.com/devtrack/taskboard/internal/models"
	"github.com/devtrack/taskboard/internal/notify"
	"github.com/devtrack/taskboard/internal/repository"
)

// fakeServer is an in-memory stand-in for the dashboard API: cookie
// session, envelope responses, and a mutable task/developer state.
type fakeServer struct {
	srv *httptest.Server

	mu         sync.Mutex
	password   string
	role       models.Role
	userID     string
	tasks      []models.Task
	developers []models.Developer
	nextID     int64
	teamAdds   []string

	profileCalls int
	taskCalls    int

	failTasks   bool
	failAddTask bool
	failLogout  bool
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	f := &fakeServer{
		password: "secret",
		role:     models.RoleManager,
		userID:   "mgr-1",
		nextID:   100,
		developers: []models.Developer{
			{ID: "dev-1", FirstName: "Jane", LastName: "Dev", Email: "jane@example.com", DeveloperType: "FRONTEND"},
			{ID: "dev-2", FirstName: "Bob", LastName: "Dev", Email: "bob@example.com", DeveloperType: "BACKEND"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.handleLogin)
	mux.HandleFunc("POST /auth/logout", f.handleLogout)
	mux.HandleFunc("GET /auth/profile", f.handleProfile)
	mux.HandleFunc("GET /tasks", f.handleTasks)
	mux.HandleFunc("POST /tasks", f.handleAddTask)
	mux.HandleFunc("PUT /tasks/{id}", f.handleUpdateTask)
	mux.HandleFunc("DELETE /tasks/{id}", f.handleDeleteTask)
	mux.HandleFunc("GET /developers", f.handleDevelopers)
	mux.HandleFunc("POST /manager/{taskId}/{developerId}", f.handleAssign)
	mux.HandleFunc("POST /manager/team/{managerId}/{developerId}", f.handleTeamAdd)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (f *fakeServer) authed(r *http.Request) bool {
	c, err := r.Cookie("SESSION")
	return err == nil && c.Value == "ok"
}

func (f *fakeServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&creds)

	f.mu.Lock()
	ok := creds.Password == f.password
	f.mu.Unlock()

	if !ok {
		f.writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "invalid credentials"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "ok", Path: "/"})
	f.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *fakeServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.failLogout
	f.mu.Unlock()

	if fail {
		f.writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "boom"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "", Path: "/", MaxAge: -1})
	f.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *fakeServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.profileCalls++
	role := f.role
	userID := f.userID
	devs := f.developers
	f.mu.Unlock()

	if !f.authed(r) {
		f.writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "not authenticated"})
		return
	}

	data := map[string]any{
		"id":        userID,
		"firstName": "Test",
		"lastName":  "User",
		"email":     "test@example.com",
		"role":      role,
	}
	if role == models.RoleManager {
		data["developerDetails"] = map[string]any{"team": devs}
	} else {
		data["developerDetails"] = map[string]any{"developerType": "BACKEND"}
	}
	f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (f *fakeServer) handleTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.taskCalls++
	fail := f.failTasks
	tasks := make([]models.Task, len(f.tasks))
	copy(tasks, f.tasks)
	f.mu.Unlock()

	if fail {
		f.writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "boom"})
		return
	}
	f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": tasks})
}

func (f *fakeServer) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskLabel string           `json:"taskLabel"`
		TaskState models.TaskState `json:"taskState"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAddTask {
		f.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid task"})
		return
	}

	f.nextID++
	task := models.Task{ID: f.nextID, TaskLabel: req.TaskLabel, TaskState: req.TaskState}
	f.tasks = append(f.tasks, task)
	f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": task})
}

func (f *fakeServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	var patch struct {
		TaskLabel *string           `json:"taskLabel"`
		TaskState *models.TaskState `json:"taskState"`
	}
	json.NewDecoder(r.Body).Decode(&patch)

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if patch.TaskLabel != nil {
			f.tasks[i].TaskLabel = *patch.TaskLabel
		}
		if patch.TaskState != nil {
			f.tasks[i].TaskState = *patch.TaskState
		}
		f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": f.tasks[i]})
		return
	}
	f.writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "task not found"})
}

func (f *fakeServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			f.writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
	}
	f.writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "task not found"})
}

func (f *fakeServer) handleDevelopers(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	devs := make([]models.Developer, len(f.developers))
	copy(devs, f.developers)
	f.mu.Unlock()

	f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": devs})
}

func (f *fakeServer) handleAssign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("taskId"), 10, 64)
	devID := r.PathValue("developerId")

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].AssignedTo = devID
			f.writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
	}
	f.writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "task not found"})
}

func (f *fakeServer) handleTeamAdd(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.teamAdds = append(f.teamAdds, r.PathValue("managerId")+"/"+r.PathValue("developerId"))
	f.mu.Unlock()
	f.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *fakeServer) seedTask(task models.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

func (f *fakeServer) taskCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taskCalls
}

func (f *fakeServer) profileCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profileCalls
}

// env wires real stores against the fake server and a temp state db.
type env struct {
	fake     *fakeServer
	api      *client.Client
	sessions *repository.SessionRepository
	center   *notify.Center
	auth     *AuthStore
	tasks    *TaskStore
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := repository.InitDB(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fake := newFakeServer(t)

	api, err := client.New(fake.srv.URL)
	require.NoError(t, err)

	logger := log.New(io.Discard, "", 0)
	center := notify.NewCenter(nil)
	sessions := repository.NewSessionRepository(db)

	auth := NewAuthStore(api, sessions, center, logger)
	t.Cleanup(auth.Close)

	return &env{
		fake:     fake,
		api:      api,
		sessions: sessions,
		center:   center,
		auth:     auth,
		tasks:    NewTaskStore(api, center, logger),
	}
}

// login binds the task store, initializes, and logs in as the fake
// server's configured user.
func (e *env) login(t *testing.T, ctx context.Context) {
	t.Helper()
	e.tasks.Bind(ctx, e.auth)
	e.auth.Init(ctx)
	require.NoError(t, e.auth.Login(ctx, client.Credentials{Email: "test@example.com", Password: "secret"}))
	e.center.Flush()
}
