package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/PolarWolf314/securehide/internal/carrier"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
	"github.com/PolarWolf314/securehide/internal/stego"
)

// multipartMemory is how much of a multipart body is held in memory before spilling to disk.
const multipartMemory = 8 << 20

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// apiHealthResponse is the body of GET /api/health, which lists the codec routes.
type apiHealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Endpoints map[string]string `json:"endpoints"`
}

type extractResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "active",
		Service: ServiceName,
		Version: s.version,
	})
}

func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiHealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Endpoints: map[string]string{
			"hide":    "/api/hide",
			"extract": "/api/extract",
		},
	})
}

// openUpload parses the multipart form and opens its "image" part.
func (s *Server) openUpload(r *http.Request) (multipart.File, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("upload exceeds %d bytes: %w", tooLarge.Limit, kerrors.ErrInvalidInput)
		}
		return nil, fmt.Errorf("expected a multipart form: %w", kerrors.ErrInvalidInput)
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("image is required: %w", kerrors.ErrInvalidInput)
	}
	return file, nil
}

// readUpload returns the bytes of the "image" part.
func (s *Server) readUpload(r *http.Request) ([]byte, error) {
	file, err := s.openUpload(r)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", kerrors.ErrInvalidInput)
	}
	return data, nil
}

// fail writes err and records it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	kind := writeError(w, err)
	if op != "" {
		s.metrics.observeOutcome(op, kind)
	}

	log := s.log.With(requestID(r.Context()))
	switch kind {
	case "internal":
		log.ErrorfAlways("%s failed: %v", r.URL.Path, err)
		return
	case "canceled":
		log.Debugf("%s abandoned by client", r.URL.Path)
		return
	}
	log.Warnf("%s rejected: %s", r.URL.Path, kind)
}

func (s *Server) handleHide(w http.ResponseWriter, r *http.Request) {
	data, err := s.readUpload(r)
	if err != nil {
		s.fail(w, r, "hide", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	message := []byte(r.FormValue("message"))
	password := []byte(r.FormValue("password"))
	opts := s.cfg.StegoOptions()

	if err := stego.ValidateHideInput(message, password, opts.MinPasswordLength); err != nil {
		stego.Wipe(password)
		s.fail(w, r, "hide", err)
		return
	}

	img, err := carrier.Decode(data, s.cfg.Policy.MaxImagePixels)
	if err != nil {
		stego.Wipe(password)
		s.fail(w, r, "hide", err)
		return
	}
	format, _ := carrier.LookupFormat(img.Format)

	var out []byte
	err = s.pool.Do(r.Context(), func(ctx context.Context) error {
		defer stego.Wipe(password)

		stegoImg, err := stego.Hide(ctx, img, message, password, opts)
		if err != nil {
			return err
		}
		out, err = carrier.EncodeBytes(stegoImg)
		return err
	})
	if errors.Is(err, ErrBusy) {
		stego.Wipe(password)
	}
	if err != nil {
		s.fail(w, r, "hide", err)
		return
	}

	s.metrics.observeOutcome("hide", "success")
	s.metrics.envelopeBytes.Observe(float64(stego.EnvelopeSize(len(message))))

	w.Header().Set("Content-Type", format.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=hidden_message"+format.Extension)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, err := s.readUpload(r)
	if err != nil {
		s.fail(w, r, "extract", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	password := []byte(r.FormValue("password"))
	if len(password) == 0 {
		s.fail(w, r, "extract", fmt.Errorf("password is required: %w", kerrors.ErrInvalidInput))
		return
	}

	img, err := carrier.Decode(data, s.cfg.Policy.MaxImagePixels)
	if err != nil {
		stego.Wipe(password)
		s.fail(w, r, "extract", err)
		return
	}

	var message []byte
	err = s.pool.Do(r.Context(), func(ctx context.Context) error {
		defer stego.Wipe(password)

		var err error
		message, err = stego.Reveal(ctx, img, password)
		return err
	})
	if errors.Is(err, ErrBusy) {
		stego.Wipe(password)
	}
	if err != nil {
		s.fail(w, r, "extract", err)
		return
	}

	s.metrics.observeOutcome("extract", "success")
	writeJSON(w, http.StatusOK, extractResponse{Success: true, Message: string(message)})
}

// handleCapacityQuery answers GET /capacity?width=&height=&message_bytes=.
func (s *Server) handleCapacityQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	width, err := positiveParam(q.Get("width"), "width")
	if err != nil {
		s.fail(w, r, "", err)
		return
	}
	height, err := positiveParam(q.Get("height"), "height")
	if err != nil {
		s.fail(w, r, "", err)
		return
	}

	n := 0
	if v := q.Get("message_bytes"); v != "" {
		n, err = strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, "", fmt.Errorf("message_bytes must be a non-negative integer: %w", kerrors.ErrInvalidInput))
			return
		}
	}

	writeJSON(w, http.StatusOK, stego.Estimate(width, height, n))
}

// handleCapacityUpload answers POST /capacity with an uploaded image and optional message.
// The upload is buffered by the multipart parser, but only its header is decoded.
func (s *Server) handleCapacityUpload(w http.ResponseWriter, r *http.Request) {
	file, err := s.openUpload(r)
	if err != nil {
		s.fail(w, r, "", err)
		return
	}
	defer r.MultipartForm.RemoveAll()
	defer file.Close()

	cfg, format, err := carrier.ConfigReader(file)
	if err != nil {
		s.fail(w, r, "", err)
		return
	}
	if _, ok := carrier.LookupFormat(format); !ok {
		s.fail(w, r, "", fmt.Errorf("%s images cannot carry a message: %w", strings.ToUpper(format), kerrors.ErrUnsupportedFormat))
		return
	}

	writeJSON(w, http.StatusOK, stego.Estimate(cfg.Width, cfg.Height, len(r.FormValue("message"))))
}

func positiveParam(v, name string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, kerrors.ErrInvalidInput)
	}
	return n, nil
}
