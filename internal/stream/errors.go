package stream

import (
	"errors"
	"fmt"
)

const (
	msgSigningKeyMissing = "Cloudflare Signing Key가 설정되지 않았습니다."
	msgAPIConfigMissing  = "Cloudflare API 설정이 필요합니다."
	msgVideoFetchFailed  = "비디오 정보를 가져올 수 없습니다."
	msgVideoListFailed   = "비디오 목록을 가져올 수 없습니다."
)

var (
	// ErrConfiguration means a required secret is not configured. It is
	// returned before any network or crypto work.
	ErrConfiguration = errors.New("stream: configuration")
	ErrFetch         = errors.New("stream: fetch")
	ErrInvalidVideo  = errors.New("stream: video id is required")
)

// ConfigError carries the user facing message for a missing setting.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }
func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// FetchError is a non-2xx answer from the Stream management API.
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *FetchError) Unwrap() error { return ErrFetch }
