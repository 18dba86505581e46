package domain

import (
	"net/url"
	"strings"
)

// Validate checks a download request and returns a *ValidationError with
// field-level detail when the request is malformed.
func (r *DownloadRequest) Validate() error {
	fields := map[string]string{}

	rawURL := strings.TrimSpace(r.URL)
	if rawURL == "" {
		fields["url"] = "url is required"
	} else {
		parsed, err := url.Parse(rawURL)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			fields["url"] = "must be a valid http(s) URL"
		}
	}

	switch Format(r.Format) {
	case FormatMP3, FormatWAV, FormatFLAC:
	default:
		fields["format"] = "must be one of: mp3, wav, flac"
	}

	switch Quality(r.Quality) {
	case Quality128, Quality320, QualityLossless:
	default:
		fields["quality"] = "must be one of: 128, 320, lossless"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Validate checks a search request.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return &ValidationError{Fields: map[string]string{"query": "query is required"}}
	}
	return nil
}
