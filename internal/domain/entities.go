// Package domain contains the core business entities and types.
package domain

import (
	"time"
)

// JobStatus represents the current state of a download job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusFetching   JobStatus = "fetching"
	JobStatusConverting JobStatus = "converting"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// IsTerminal reports whether no further transitions can leave the status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// Platform identifies the source service a URL belongs to.
type Platform string

const (
	PlatformYouTube    Platform = "youtube"
	PlatformSoundCloud Platform = "soundcloud"
	PlatformSpotify    Platform = "spotify"
	PlatformAppleMusic Platform = "applemusic"
	PlatformOther      Platform = "other"
)

// Format is the requested output audio format.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
)

// Quality is the requested output quality.
type Quality string

const (
	Quality128      Quality = "128"
	Quality320      Quality = "320"
	QualityLossless Quality = "lossless"
)

// Metadata holds descriptive information resolved for a source URL.
type Metadata struct {
	Title     string `json:"title,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  int    `json:"duration,omitempty"` // seconds
}

// Job represents a single download/convert request and its lifecycle record.
//
// After creation only the processing pipeline mutates status, progress,
// resultFileUrl and error; there is exactly one pipeline run per job id.
type Job struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Platform      Platform  `json:"platform"`
	Format        Format    `json:"format"`
	Quality       Quality   `json:"quality"`
	Status        JobStatus `json:"status"`
	Progress      int       `json:"progress"` // 0-100
	ResultFileURL string    `json:"resultFileUrl,omitempty"`
	Metadata      *Metadata `json:"metadata,omitempty"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewJob creates a pending Job with progress 0 and fresh timestamps.
func NewJob(id, url string, platform Platform, format Format, quality Quality, meta *Metadata) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        id,
		URL:       url,
		Platform:  platform,
		Format:    format,
		Quality:   quality,
		Status:    JobStatusPending,
		Progress:  0,
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SearchResult is a single entry returned by the search provider.
type SearchResult struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Artist    string   `json:"artist,omitempty"`
	Platform  Platform `json:"platform"`
	URL       string   `json:"url"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Duration  int      `json:"duration,omitempty"`
}

// DownloadRequest is the body of POST /api/download.
type DownloadRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format"`
	Quality string `json:"quality"`
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	QueueSize int    `json:"queue_size"`
	Workers   int    `json:"workers"`
}

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}
