package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/securoserv/securovault/internal/client/models"
	"github.com/securoserv/securovault/internal/common"
	"github.com/securoserv/securovault/internal/logging"
)

// HTTPClient is the Client implementation over net/http. Plain requests run
// under a hard timeout; uploads are governed by the caller's context only, so
// large folders are not cut off mid-stream.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	uploads *http.Client
	tokens  TokenSource
	log     logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	transport := newLoggingTransport(http.DefaultTransport, log)
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Transport: transport},
		uploads: &http.Client{Transport: transport},
		tokens:  tokens,
		log:     log,
	}
}

func (c *HTTPClient) url(path string) string {
	return c.baseURL + path
}

// bearer resolves the current token and fails fast with common.ErrNoToken
// when the store holds none. Authenticated endpoints never fire without one.
func (c *HTTPClient) bearer(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return common.ErrNoToken
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// send executes the request and maps transport failures (no response at all)
// to common.ErrUnavailable. The response body is fully read and returned.
func (c *HTTPClient) send(client *http.Client, req *http.Request) (int, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return resp.StatusCode, body, nil
}

// postJSON issues an optionally authenticated JSON POST and returns the raw
// body for endpoint-specific decoding.
func (c *HTTPClient) postJSON(ctx context.Context, path string, payload any, auth bool) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	if auth {
		if err := c.bearer(ctx, req); err != nil {
			return nil, err
		}
	}

	status, body, err := c.send(c.http, req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, errorFromResponse(status, body)
	}
	return body, nil
}

// getJSON issues an authenticated GET and returns the raw body.
func (c *HTTPClient) getJSON(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if err := c.bearer(ctx, req); err != nil {
		return nil, err
	}

	status, body, err := c.send(c.http, req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, errorFromResponse(status, body)
	}
	return body, nil
}

// userPayload is the tolerated wire shape of a user object.
type userPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u *userPayload) toModel() *models.User {
	if u == nil {
		return nil
	}
	return &models.User{Username: u.Username, Email: u.Email}
}

// tokenFromBody extracts a bearer token from either a raw string body
// (surrounding quotes stripped) or a JSON object carrying it under one of
// the tolerated names.
func tokenFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	if json.Valid(body) {
		var tr struct {
			Token       string `json:"token"`
			AccessToken string `json:"accessToken"`
			Jwt         string `json:"jwt"`
		}
		if err := json.Unmarshal(body, &tr); err == nil {
			for _, t := range []string{tr.Token, tr.AccessToken, tr.Jwt} {
				if t != "" {
					return t
				}
			}
		}
		// a bare JSON string is also accepted as the token itself
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			return strings.TrimSpace(s)
		}
		return ""
	}

	return strings.Trim(trimmed, `"`)
}

// Login posts the credentials and normalizes the response: raw-string token,
// or JSON with the token under token/accessToken/jwt and an optional user.
func (c *HTTPClient) Login(ctx context.Context, lr LoginRequest) (*LoginResult, error) {
	body, err := c.postJSON(ctx, "/auth/login", lr, false)
	if err != nil {
		return nil, err
	}

	token := tokenFromBody(body)
	if token == "" {
		return nil, fmt.Errorf("no token in response")
	}

	res := &LoginResult{Token: token}

	var payload struct {
		User *userPayload `json:"user"`
		Data *struct {
			User *userPayload `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		u := payload.User
		if u == nil && payload.Data != nil {
			u = payload.Data.User
		}
		if u != nil {
			res.User = u.toModel()
			res.Role = models.Role(strings.ToUpper(u.Role))
		}
	}
	return res, nil
}

// CreateUser starts signup step 1 and returns the provisional token when the
// backend includes one ("" otherwise).
func (c *HTTPClient) CreateUser(ctx context.Context, req CreateUserRequest) (string, error) {
	body, err := c.postJSON(ctx, "/auth/createUser", req, false)
	if err != nil {
		return "", err
	}
	return tokenFromBody(body), nil
}

// ResendOTP asks the backend to send a fresh verification code.
func (c *HTTPClient) ResendOTP(ctx context.Context, email string) error {
	payload := map[string]any{"email": strings.TrimSpace(email), "resendOTP": true}
	_, err := c.postJSON(ctx, "/auth/createUser", payload, false)
	return err
}

// VerifyOTP submits the 6-digit code and returns the final bearer token,
// accepted as either a JSON field or a raw string body.
func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	path := "/auth/verification?email=" + url.QueryEscape(strings.TrimSpace(email))
	body, err := c.postJSON(ctx, path, map[string]string{"otp": otp}, false)
	if err != nil {
		return "", err
	}

	token := tokenFromBody(body)
	if token == "" {
		return "", fmt.Errorf("no token in response")
	}
	return token, nil
}

// Me resolves the role and profile of the current token. The role may sit at
// the root or inside the user object; the profile may be the whole body.
func (c *HTTPClient) Me(ctx context.Context) (*MeResult, error) {
	body, err := c.getJSON(ctx, "/auth/me")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Role string       `json:"role"`
		User *userPayload `json:"user"`
		userPayload
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	role := payload.Role
	user := payload.User
	if user != nil && role == "" {
		role = user.Role
	}
	if user == nil {
		user = &payload.userPayload
	}
	if role == "" {
		role = string(models.RoleUser)
	}

	return &MeResult{Role: models.Role(strings.ToUpper(role)), User: user.toModel()}, nil
}

// StorageUsed fetches the usage snapshot in MB.
func (c *HTTPClient) StorageUsed(ctx context.Context) (float64, error) {
	body, err := c.getJSON(ctx, "/api/storage/used")
	if err != nil {
		return 0, err
	}

	var payload struct {
		UsedMB float64 `json:"usedMB"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return payload.UsedMB, nil
}

// multipartBody assembles the form for an upload. For folder uploads each
// entry goes under the "file" field with a matching "relativePath" field;
// flat uploads use the "files" field with no paths.
func multipartBody(files []UploadFile, folder bool) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	field := "files"
	if folder {
		field = "file"
	}

	for _, f := range files {
		part, err := w.CreateFormFile(field, f.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}
	if folder {
		for _, f := range files {
			if err := w.WriteField("relativePath", f.RelativePath); err != nil {
				return nil, "", err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *HTTPClient) upload(ctx context.Context, path string, files []UploadFile, folder bool, progress ProgressFunc) error {
	buf, contentType, err := multipartBody(files, folder)
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	total := int64(buf.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), newProgressReader(buf, total, progress))
	if err != nil {
		return err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", contentType)
	if err := c.bearer(ctx, req); err != nil {
		return err
	}

	status, body, err := c.send(c.uploads, req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return errorFromResponse(status, body)
	}
	// 2xx alone is not trusted: the backend has been seen answering 200
	// with an error payload
	return classifyUploadBody(body)
}

// UploadFiles sends a flat list of files to the upload endpoint.
func (c *HTTPClient) UploadFiles(ctx context.Context, files []UploadFile, progress ProgressFunc) error {
	return c.upload(ctx, "/encryption/upload", files, false, progress)
}

// UploadFolder sends a traversed folder, each entry with its relative path.
func (c *HTTPClient) UploadFolder(ctx context.Context, files []UploadFile, progress ProgressFunc) error {
	return c.upload(ctx, "/encryption/upload-folder", files, true, progress)
}

// rawItem tolerates the field-name drift of listing responses.
type rawItem struct {
	FileID       string `json:"fileId"`
	FolderID     string `json:"folderId"`
	ID           string `json:"id"`
	AltID        string `json:"_id"`
	Key          string `json:"key"`
	Name         string `json:"name"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	FileSize     int64  `json:"fileSize"`
	CreatedAt    string `json:"createdAt"`
	UploadedAt   string `json:"uploadedAt"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r rawItem) toModel(kind models.ItemKind) models.VaultItem {
	item := models.VaultItem{
		ID:   firstNonEmpty(r.FileID, r.FolderID, r.ID, r.AltID, r.Key),
		Name: firstNonEmpty(r.Name, r.Filename, r.OriginalName, r.Key, "unnamed"),
		Size: r.Size,
		Kind: kind,
	}
	if item.Size == 0 {
		item.Size = r.FileSize
	}
	if ts := firstNonEmpty(r.CreatedAt, r.UploadedAt); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			item.CreatedAt = t
		}
	}
	return item
}

// AllData fetches the full vault listing.
func (c *HTTPClient) AllData(ctx context.Context) (*AllData, error) {
	body, err := c.getJSON(ctx, "/profile/allData")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Files   []rawItem `json:"files"`
		Folders []rawItem `json:"folders"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := &AllData{}
	for _, f := range payload.Files {
		out.Files = append(out.Files, f.toModel(models.KindFile))
	}
	for _, f := range payload.Folders {
		out.Folders = append(out.Folders, f.toModel(models.KindFolder))
	}
	return out, nil
}

// Download fetches the decrypted blob for a file. The save filename comes
// from the Content-Disposition header when present; the caller falls back to
// the stored name otherwise.
func (c *HTTPClient) Download(ctx context.Context, fileID string) (*DownloadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/vault/decrypt/"+url.PathEscape(fileID)), nil)
	if err != nil {
		return nil, err
	}
	if err := c.bearer(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, body)
	}

	res := &DownloadResult{Body: body}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			res.Filename = params["filename"]
		}
	}
	return res, nil
}

// DeleteFile removes one stored file.
func (c *HTTPClient) DeleteFile(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.url("/api/files/"+url.PathEscape(fileID)), nil)
	if err != nil {
		return err
	}
	if err := c.bearer(ctx, req); err != nil {
		return err
	}

	status, body, err := c.send(c.http, req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return errorFromResponse(status, body)
	}
	return nil
}

// CreateOrder asks the backend to create a payment-gateway order.
func (c *HTTPClient) CreateOrder(ctx context.Context, amount int64) (*Order, error) {
	body, err := c.postJSON(ctx, "/payment/create-order", map[string]int64{"amount": amount}, true)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("no order id in response")
	}
	return &order, nil
}

// VerifyPayment posts the checkout signature fields back for verification.
func (c *HTTPClient) VerifyPayment(ctx context.Context, v PaymentVerification) error {
	_, err := c.postJSON(ctx, "/payment/verify", v, true)
	return err
}
