// Package api implements the HTTP client for the SecuroVault backend. The
// backend owns encryption, persistence and authorization; this package only
// shapes requests, extracts tokens and errors from the tolerated response
// variants, and reports upload progress.
package api

import (
	"context"

	"github.com/securoserv/securovault/internal/client/models"
)

// TokenSource supplies the current bearer token for authenticated requests.
// The session store implements it; tests inject a stub.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// LoginRequest carries the login credentials. Exactly one of Email/Username
// is set, depending on how the identifier validated.
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// LoginResult is the normalized login response: the backend may answer with
// a raw token string or JSON carrying the token under several names, with or
// without an embedded user.
type LoginResult struct {
	Token string
	Role  models.Role
	User  *models.User
}

// CreateUserRequest carries the signup step-1 payload.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// MeResult is the normalized "who am I" response.
type MeResult struct {
	Role models.Role
	User *models.User
}

// UploadFile is one file queued for upload. RelativePath is empty for flat
// file uploads and set to the path under the dropped root for folder uploads.
type UploadFile struct {
	Name         string
	RelativePath string
	Content      []byte
}

// ProgressFunc observes byte-level upload progress as a 0–100 value.
type ProgressFunc func(percent int)

// AllData is the full vault listing for the authenticated user.
type AllData struct {
	Files   []models.VaultItem
	Folders []models.VaultItem
}

// DownloadResult is a decrypted blob plus the filename derived from the
// Content-Disposition header, when the backend sent one.
type DownloadResult struct {
	Filename string
	Body     []byte
}

// Order is the payment-gateway order created by the backend.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentVerification carries the checkout signature fields posted back to
// the backend after the overlay completes.
type PaymentVerification struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
	Username  string `json:"username"`
}

// Client is the remote API surface consumed by the services layer. All
// endpoints are configurable; the backend is treated as an opaque HTTP/JSON
// collaborator.
type Client interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (string, error)
	ResendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	Me(ctx context.Context) (*MeResult, error)

	StorageUsed(ctx context.Context) (float64, error)

	UploadFiles(ctx context.Context, files []UploadFile, progress ProgressFunc) error
	UploadFolder(ctx context.Context, files []UploadFile, progress ProgressFunc) error

	AllData(ctx context.Context) (*AllData, error)
	Download(ctx context.Context, fileID string) (*DownloadResult, error)
	DeleteFile(ctx context.Context, fileID string) error

	CreateOrder(ctx context.Context, amount int64) (*Order, error)
	VerifyPayment(ctx context.Context, v PaymentVerification) error
}
