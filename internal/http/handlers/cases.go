package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"rescue/internal/domain"
	"rescue/internal/i18n"
)

func (a *App) CasesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Cases.List(r.Context())
	if err != nil {
		a.fail(w, r, listMessages, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) CasesGet(w http.ResponseWriter, r *http.Request) {
	c, err := a.Cases.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, listMessages, err)
		return
	}
	a.json(w, http.StatusOK, c)
}

// CasesCreate accepts a multipart form with the case fields and an "image" file.
func (a *App) CasesCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, "unauthorized", i18n.MsgReportPermission)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			a.invalid(w, r, map[string]string{"image": "image is too large"})
			return
		}
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.MsgInvalidPayload)
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := domain.NewCase{
		AnimalType:  r.FormValue("animal_type"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		Severity:    domain.Severity(strings.ToLower(strings.TrimSpace(r.FormValue("severity")))),
	}
	if raw := strings.TrimSpace(r.FormValue("goal")); raw != "" {
		goal, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			a.invalid(w, r, map[string]string{"goal": "goal must be a whole number"})
			return
		}
		in.Goal = goal
	}

	img, err := readImage(r)
	if err != nil {
		a.invalid(w, r, map[string]string{"image": err.Error()})
		return
	}

	id, err := a.Cases.Report(r.Context(), userID, in, img)
	if err != nil {
		a.fail(w, r, reportMessages, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": id, "message": a.t(r, i18n.MsgReportSuccess)})
}

var errNotImage = errors.New("file must be an image")

// readImage returns the uploaded image, or nil when none was sent.
func readImage(r *http.Request) (*domain.Image, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errNotImage
	}
	return &domain.Image{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}
