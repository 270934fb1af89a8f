// Package client is the thin RPC boundary to the remote delivery service.
// Requests are form-encoded POSTs against a configurable base URL; the image
// upload is a multipart POST. Only the contract lives here, no business
// logic.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"example.com/fieldtrack/agent/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config holds the remote endpoint configuration.
type Config struct {
	BaseURL string
	// ShortTimeout applies to login; BulkTimeout to record fetch/push and
	// image uploads.
	ShortTimeout time.Duration
	BulkTimeout  time.Duration
}

// Client talks to the remote delivery service.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logrus.Logger
}

// New creates a client for the given endpoint configuration.
func New(cfg Config, log *logrus.Logger) *Client {
	if cfg.ShortTimeout <= 0 {
		cfg.ShortTimeout = 8 * time.Second
	}
	if cfg.BulkTimeout <= 0 {
		cfg.BulkTimeout = 60 * time.Second
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if log == nil {
		log = logrus.New()
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		log:        log,
	}
}

// Session is the identity returned by a successful login.
type Session struct {
	User   string
	UserID string
}

// apiResponse is the common envelope of the form endpoints.
type apiResponse struct {
	Error   bool                    `json:"error"`
	Message string                  `json:"mensaje"`
	UserID  string                  `json:"id_usuario"`
	User    string                  `json:"usuario"`
	Records []models.DeliveryRecord `json:"datos"`
}

// Login authenticates the driver.
func (c *Client) Login(ctx context.Context, user, password string) (*Session, error) {
	form := url.Values{}
	form.Set("usuario", user)
	form.Set("contrasena", password)

	resp, err := c.postForm(ctx, "usuario/login", form, c.cfg.ShortTimeout)
	if err != nil {
		return nil, err
	}
	return &Session{User: resp.User, UserID: resp.UserID}, nil
}

// FetchRecords downloads the full delivery route assigned to the user.
func (c *Client) FetchRecords(ctx context.Context, userID string) ([]models.DeliveryRecord, error) {
	form := url.Values{}
	form.Set("usuario_id", userID)

	resp, err := c.postForm(ctx, "usuario/get_ruta", form, c.cfg.BulkTimeout)
	if err != nil {
		return nil, err
	}
	if resp.Records == nil {
		return []models.DeliveryRecord{}, nil
	}
	return resp.Records, nil
}

// SubmitRecords uploads the full local collection.
func (c *Client) SubmitRecords(ctx context.Context, userID string, records []models.DeliveryRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "failed to serialize records")
	}

	form := url.Values{}
	form.Set("usuario_id", userID)
	form.Set("datosDist", string(payload))

	_, err = c.postForm(ctx, "usuario/subirDatosDist", form, c.cfg.BulkTimeout)
	return err
}

// UploadImage uploads one captured photo for an institution as a multipart
// request. Any non-2xx status is a failure.
func (c *Client) UploadImage(ctx context.Context, instID, filename string, image io.Reader) error {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return errors.Wrap(err, "failed to build multipart request")
	}
	if _, err := io.Copy(part, image); err != nil {
		return errors.Wrap(err, "failed to read image data")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "failed to finish multipart request")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.BulkTimeout)
	defer cancel()

	endpoint := c.cfg.BaseURL + "usuario/subir_imagenes/" + url.PathEscape(instID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Message: fmt.Sprintf("error %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))}
	}
	return nil
}

// postForm posts a form-encoded request and decodes the common response
// envelope, converting error:true into an *APIError.
func (c *Client) postForm(ctx context.Context, suffix string, form url.Values, timeout time.Duration) (*apiResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := c.cfg.BaseURL + suffix
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"endpoint": suffix,
		"status":   resp.StatusCode,
		"latency":  time.Since(start),
	}).Debug("Remote call completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("unexpected status %d from %s", resp.StatusCode, suffix)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrapf(err, "failed to decode response from %s", suffix)
	}

	if decoded.Error {
		return nil, &APIError{Message: decoded.Message}
	}
	return &decoded, nil
}
