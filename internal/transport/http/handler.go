package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/cwrk-planet/course-relay/internal/service"
	"github.com/cwrk-planet/course-relay/pkg/errs"
	"github.com/cwrk-planet/course-relay/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

const HeaderNextCursor = "X-Next-Cursor"

type RoomLister interface {
	Snapshot(ctx context.Context) (map[string][]string, error)
}

type Handler struct {
	registry *service.RegistryService
	rooms    RoomLister
	log      *slog.Logger
}

func NewHandler(registry *service.RegistryService, rooms RoomLister, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		registry: registry,
		rooms:    rooms,
		log:      log,
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := errs.ToHTTP(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("handler."+op, slog.Any("err", err))
	}
	httputil.Error(w, status, errs.Message(err))
}

// POST /api/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.registry.CreateUser(r.Context(), req.Username, req.Bio, req.Skills)
	if err != nil {
		h.fail(w, "Register", err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// GET /api/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.registry.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "GetUser", err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// POST /api/course
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	course, err := h.registry.CreateCourse(r.Context(), req.UserID, req.Title, req.Desc, req.Image)
	if err != nil {
		h.fail(w, "CreateCourse", err)
		return
	}

	httputil.JSON(w, http.StatusOK, course)
}

// GET /api/courses?limit=&cursor=
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	cursor := r.URL.Query().Get("cursor")

	courses, next, err := h.registry.ListCoursesPage(r.Context(), limit, cursor)
	if err != nil {
		h.fail(w, "ListCourses", err)
		return
	}
	if next != "" {
		w.Header().Set(HeaderNextCursor, next)
	}

	httputil.JSON(w, http.StatusOK, CoursesResponse(courses))
}

// GET /api/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	snap, err := h.rooms.Snapshot(r.Context())
	if err != nil {
		h.log.Warn("handler.ListRooms", slog.Any("err", err))
		httputil.Error(w, http.StatusServiceUnavailable, "relay unavailable")
		return
	}

	resp := RoomsListResponse{Items: make([]RoomItem, 0, len(snap))}
	for room, members := range snap {
		resp.Items = append(resp.Items, RoomItem{Room: room, Members: len(members)})
	}
	sort.Slice(resp.Items, func(i, j int) bool { return resp.Items[i].Room < resp.Items[j].Room })

	httputil.JSON(w, http.StatusOK, resp)
}
