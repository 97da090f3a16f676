package rpc

import "time"

// Binary fields are []byte and travel base64-encoded inside the JSON body.

type Empty struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type InitUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type InitUserResponse struct {
	Created bool `json:"created"`
}

type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

type VerifyPasswordResponse struct {
	Valid bool `json:"valid"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword"`
}

type ChangePasswordResponse struct {
	JobID string `json:"jobId"`
}

// Job is the wire form of a re-encryption job snapshot.
type Job struct {
	JobID          string            `json:"jobId"`
	UserID         string            `json:"userId"`
	TotalFiles     int               `json:"totalFiles"`
	ProcessedFiles int               `json:"processedFiles"`
	FailedFiles    int               `json:"failedFiles"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
	Failures       map[string]string `json:"failures,omitempty"`
	Error          string            `json:"error,omitempty"`
}

type JobStatusRequest struct {
	JobID string `json:"jobId"`
}

type JobStatusResponse struct {
	Job Job `json:"job"`
}

type ListJobsRequest struct{}

type ListJobsResponse struct {
	Jobs []Job `json:"jobs"`
}

// File is the wire form of an encrypted file record. Nonce, Salt and
// AuthTag are already base64 strings.
type File struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	MimeType  string    `json:"mimeType"`
	FileSize  int64     `json:"fileSize"`
	Nonce     string    `json:"iv"`
	Salt      string    `json:"salt"`
	AuthTag   string    `json:"authTag"`
	Stored    bool      `json:"stored"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UploadEncryptedRequest struct {
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	Ciphertext []byte `json:"ciphertext"`
	Nonce      string `json:"iv"`
	Salt       string `json:"salt"`
	AuthTag    string `json:"authTag"`
}

type EncryptAndUploadRequest struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
	Password string `json:"password"`
}

type FileResponse struct {
	File File `json:"file"`
}

type DownloadRequest struct {
	FileID string `json:"fileId"`
}

type DownloadResponse struct {
	File       File   `json:"file"`
	Ciphertext []byte `json:"ciphertext"`
}

type DownloadDecryptedRequest struct {
	FileID   string `json:"fileId"`
	Password string `json:"password"`
}

type DownloadDecryptedResponse struct {
	File File   `json:"file"`
	Data []byte `json:"data"`
}

type ListFilesRequest struct{}

type ListFilesResponse struct {
	Files []File `json:"files"`
}

type DeleteFileRequest struct {
	FileID string `json:"fileId"`
}

type GoogleAuthURLRequest struct{}

type GoogleAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type GoogleConnectRequest struct {
	Code string `json:"code"`
}

type GoogleStatusRequest struct{}

type GoogleStatusResponse struct {
	Connected bool      `json:"connected"`
	Expiry    time.Time `json:"expiry,omitempty"`
}

type GoogleDisconnectRequest struct{}

type DeleteAccountRequest struct{}
